package vcfmat

func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

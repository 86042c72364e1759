package main

import (
	"flag"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/vcfmat"
)

func main() {
	path := flag.String("vcf", "", "Filename of the variant callset to process")
	vmiPath := flag.String("vmi", "", "Filename of the vmi (index) file to write and re-read")
	stride := flag.Int("stride", 1000, "Examine only every Nth data line")
	flag.Parse()

	if strings.HasPrefix(*path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*path = filepath.Join(usr.HomeDir, (*path)[2:])
	}

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No callset found")
	}

	if *vmiPath == "" {
		*vmiPath = *path + ".vmi"
	}

	log.Println("Opening callset:", *path)
	v, err := vcfmat.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer v.Close()

	mb := vcfmat.MatrixBuilder{
		Stride: *stride,
		Opts:   vcfmat.ParseOptions{AutosomeOnly: true, ACGTOnly: true},
	}

	_, keys, report, err := mb.Build(v)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Retained %d of %d tested lines\n", report.TotalRetained, report.TotalProcessed)

	log.Println("Writing index with the", vcfmat.WhichSQLiteDriver(), "driver:", *vmiPath)
	if err := vcfmat.WriteVMI(*vmiPath, *path, *stride, keys, report); err != nil {
		log.Fatalln(err)
	}

	vmi, err := vcfmat.OpenVMI(*vmiPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer vmi.Close()
	log.Printf("VMI Metadata: %+v\n", vmi.Metadata)

	rows, err := vmi.DB.Queryx("SELECT * FROM Variant ORDER BY matrix_column ASC LIMIT 10")
	if err != nil {
		log.Fatalln(err)
	}
	defer rows.Close()

	var row vcfmat.IndexedVariant
	for rows.Next() {
		if err := rows.StructScan(&row); err != nil {
			log.Fatalln(err)
		}
		log.Printf("%+v\n", row)
	}
}

package vcfmat

import (
	"cloud.google.com/go/storage"
	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
)

// OpenWithClient behaves like Open, but additionally accepts gs://
// paths, which are streamed from Google Storage via the provided
// client. A nil client restricts path to the local filesystem.
func OpenWithClient(path string, client *storage.Client) (*VCF, error) {
	fraw, err := genomisc.MaybeOpenSeekerFromGoogleStorage(path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return newVCF(path, fraw)
}

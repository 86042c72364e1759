package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/vcfmat"
)

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}

func main() {
	path := flag.String("vcf", "", "Filename of the variant callset to process (.vcf, .vcf.gz, or .vcf.zst; may be a gs:// path)")
	panelPath := flag.String("panel", "", "Filename of the sample-to-population panel file")
	descPath := flag.String("popdesc", "", "Filename of the tab-delimited population description file")
	stride := flag.Int("stride", 100, "Examine only every Nth data line")
	autosome := flag.Bool("autosome", true, "Keep only records on autosomes 1-22")
	acgt := flag.Bool("acgt", true, "Keep only records whose ref and alt are a single A, C, G, or T")
	vmiPath := flag.String("vmi", "", "If set, write a sidecar index of the retained variants to this path")
	flag.Parse()

	if *path == "" || *panelPath == "" || *descPath == "" {
		flag.PrintDefaults()
		log.Fatalln("-vcf, -panel, and -popdesc are all required")
	}

	*path = expandHome(*path)
	*panelPath = expandHome(*panelPath)
	*descPath = expandHome(*descPath)

	var client *storage.Client
	if strings.HasPrefix(*path, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
	}

	log.Println("Opening callset:", *path)
	v, err := vcfmat.OpenWithClient(*path, client)
	if err != nil {
		log.Fatalln(err)
	}
	defer v.Close()
	log.Printf("Compression: %s. Header names %d samples.\n", v.FlagCompression, v.NSamples)

	panel, err := os.Open(*panelPath)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer panel.Close()

	desc, err := os.Open(*descPath)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer desc.Close()

	popIdx, err := vcfmat.BuildPopulationIndex(v.SampleNames, panel, desc)
	if err != nil {
		log.Fatalln(err)
	}
	if err := popIdx.CheckComplete(); err != nil {
		log.Fatalln(err)
	}

	mb := vcfmat.MatrixBuilder{
		Stride: *stride,
		Opts: vcfmat.ParseOptions{
			AutosomeOnly: *autosome,
			ACGTOnly:     *acgt,
		},
	}

	matrix, keys, report, err := mb.Build(v)
	if err != nil {
		log.Fatalln(err)
	}

	nSamples, nVariants := matrix.Dims()
	log.Printf("Matrix: %d samples x %d variants (stride %d)\n", nSamples, nVariants, *stride)
	log.Printf("Tested %d lines, retained %d, skipped %d\n", report.TotalProcessed, report.TotalRetained, report.TotalSkipped())
	for reason, n := range report.Counts {
		log.Printf("  %s: %d\n", reason, n)
	}
	for _, diag := range report.Diagnostics {
		log.Println("  diagnostic:", diag)
	}

	for _, continent := range popIdx.Continents {
		total := 0
		for _, pop := range popIdx.ContinentPopulations[continent] {
			total += len(popIdx.RowsOf[pop])
		}
		fmt.Printf("%s\t%d populations\t%d samples\n", continent, len(popIdx.ContinentPopulations[continent]), total)
	}
	if n := len(popIdx.MissingRows); n > 0 {
		fmt.Printf("(no metadata)\t%d samples\n", n)
	}

	if *vmiPath != "" {
		log.Println("Writing variant index:", *vmiPath)
		if err := vcfmat.WriteVMI(*vmiPath, *path, *stride, keys, report); err != nil {
			log.Fatalln(err)
		}
	}
}

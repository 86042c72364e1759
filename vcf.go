package vcfmat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

// sampleFieldOffset is the zero-based field at which sample
// identifiers begin on the final header line. The ordering of those
// fields defines the row order of the eventual matrix.
const sampleFieldOffset = 9

var (
	// BufferSize is the size of the read buffer placed over the
	// (possibly decompressing) input stream.
	BufferSize = 4096 * 8

	// MaxLineBytes caps the length of a single variant line. Genome-scale
	// callsets with thousands of samples routinely exceed bufio's
	// default.
	MaxLineBytes = 64 * 1024 * 1024
)

// VCF is the main object used for streaming over a variant callset. It
// is not safe for concurrent use; each goroutine needs its own VCF.
type VCF struct {
	FilePath        string
	FlagCompression Compression
	SampleNames     []string
	NSamples        int

	file    io.Closer
	decomp  io.Closer
	scanner *bufio.Scanner
}

// Open attempts to read a variant callset located at path, which may
// be plain text or gzip- or Zstandard-compressed. If successful, the
// header has been consumed and the returned VCF is positioned at the
// first data line.
func Open(path string) (*VCF, error) {
	fraw, err := genomisc.MaybeOpenSeekerFromGoogleStorage(path, nil)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return newVCF(path, fraw)
}

func newVCF(path string, fraw io.ReadSeekCloser) (*VCF, error) {
	v := &VCF{FilePath: path, file: fraw}

	magic := make([]byte, 4)
	n, err := io.ReadFull(fraw, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		fraw.Close()
		return nil, pfx.Err(err)
	}
	if _, err := fraw.Seek(0, io.SeekStart); err != nil {
		fraw.Close()
		return nil, pfx.Err(err)
	}
	v.FlagCompression = sniffCompression(magic[:n])

	var r io.Reader = fraw
	switch v.FlagCompression {
	case CompressionGzip:
		gz, err := gzip.NewReader(fraw)
		if err != nil {
			fraw.Close()
			return nil, pfx.Err(err)
		}
		v.decomp = gz
		r = gz
	case CompressionZStandard:
		zr := NewZStandardReader(fraw)
		v.decomp = zr
		r = zr
	}

	v.scanner = bufio.NewScanner(r)
	v.scanner.Buffer(make([]byte, BufferSize), MaxLineBytes)

	if err := populateVCFHeader(v); err != nil {
		v.Close()
		return nil, pfx.Err(err)
	}

	return v, nil
}

// populateVCFHeader consumes the header section: "##" metadata lines
// are ignored, and the single "#CHROM" line yields the ordered sample
// list.
func populateVCFHeader(v *VCF) error {
	for v.scanner.Scan() {
		line := v.scanner.Text()

		if strings.HasPrefix(line, metaLinePrefix) {
			continue
		}

		if strings.HasPrefix(line, headerLinePrefix) {
			fields := strings.Fields(line)
			if len(fields) < sampleFieldOffset {
				return fmt.Errorf("the header line of %s has %d fields; expected at least %d", v.FilePath, len(fields), sampleFieldOffset)
			}
			v.SampleNames = append([]string{}, fields[sampleFieldOffset:]...)
			v.NSamples = len(v.SampleNames)

			return nil
		}

		return fmt.Errorf("%s: data line encountered before the #CHROM header line", v.FilePath)
	}

	if err := v.scanner.Err(); err != nil {
		return err
	}

	return fmt.Errorf("no #CHROM header line found in %s", v.FilePath)
}

// ReadLine returns the next raw line of the stream. The second return
// is false once the stream is exhausted or has failed; Err()
// distinguishes the two.
func (v *VCF) ReadLine() (string, bool) {
	if v.scanner.Scan() {
		return v.scanner.Text(), true
	}

	return "", false
}

// Err reports the deferred I/O error, if any, from the underlying
// stream.
func (v *VCF) Err() error {
	if err := v.scanner.Err(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func (v *VCF) Close() error {
	if v.decomp != nil {
		if err := v.decomp.Close(); err != nil {
			v.file.Close()
			return pfx.Err(err)
		}
	}

	return v.file.Close()
}

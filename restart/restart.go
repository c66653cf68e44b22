// Package restart implements spec 4.7, item C9: the exact binary layout
// the core reads and writes for restart files. Grounded on
// phil-mansfield-guppy's lib/compress/file.go idiom — hand-rolled
// binary.Write/binary.Read over a buffered writer/reader, with
// length-prefixed string fields for the species-name table — since the
// pack carries no general-purpose structured-binary-format library and
// the schema is exact, not negotiable (spec 4.7: "exactly this schema").
package restart

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/solverinput"
)

var order = binary.LittleEndian

// BlockData is one block's dimensional field data in restart-schema order
// (density, velocity x/y/z, pressure, [tke, sdr]?, mass fractions), one
// record per physical cell in the block's own i,j,k row-major order.
type BlockData struct {
	Ni, Nj, Nk, NumVars int
	Values              []float64 // len == Ni*Nj*Nk*NumVars
}

// File is a restart blob's full decoded contents: the primitive-variable
// snapshot every restart carries, plus, when NumSols == 2, the matching
// conserved-variable snapshot Beam-Warming's unsteady term needs to
// resume exactly (spec 4.7's "conserved variants... only when
// numSols == 2").
type File struct {
	NumSols      int
	Iter         int
	NumEqns      int
	Species      []string
	ResidL2First []float64

	Primitive []BlockData
	Conserved []BlockData // nil unless NumSols == 2
}

// Write encodes f to w exactly per spec 4.7's schema.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	if err := writeField(bw, int32(f.NumSols)); err != nil {
		return err
	}
	if err := writeField(bw, int32(f.Iter)); err != nil {
		return err
	}
	if err := writeField(bw, int32(f.NumEqns)); err != nil {
		return err
	}
	if err := writeField(bw, int32(len(f.Species))); err != nil {
		return err
	}
	for _, name := range f.Species {
		if err := writeString(bw, name); err != nil {
			return err
		}
	}
	if err := writeFloats(bw, f.ResidL2First); err != nil {
		return err
	}
	if err := writeField(bw, int32(len(f.Primitive))); err != nil {
		return err
	}
	for _, blk := range f.Primitive {
		if err := writeBlockHeader(bw, blk); err != nil {
			return err
		}
	}
	for _, blk := range f.Primitive {
		if err := writeFloats(bw, blk.Values); err != nil {
			return err
		}
	}
	if f.NumSols == 2 {
		for _, blk := range f.Conserved {
			if err := writeFloats(bw, blk.Values); err != nil {
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return &ferr.IOFailure{Op: "write", Path: "<restart>", Err: err}
	}
	return nil
}

// Read decodes a restart blob from r per spec 4.7's schema. It does not
// know about the current run's grid decomposition: per spec 5's "Restart
// reading is centralized at root, then decomposed and scattered", the
// caller is responsible for matching File.Primitive's block order against
// the current decomposition (ApplyToBlock does this per block once the
// caller has resolved which restart block belongs to which ProcBlock).
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := &File{}

	var numSols, iter, numEqns, numSpec int32
	if err := readField(br, &numSols); err != nil {
		return nil, err
	}
	if err := readField(br, &iter); err != nil {
		return nil, err
	}
	if err := readField(br, &numEqns); err != nil {
		return nil, err
	}
	if err := readField(br, &numSpec); err != nil {
		return nil, err
	}
	f.NumSols, f.Iter, f.NumEqns = int(numSols), int(iter), int(numEqns)

	f.Species = make([]string, numSpec)
	for i := range f.Species {
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		f.Species[i] = name
	}

	f.ResidL2First = make([]float64, numEqns)
	if err := readFloats(br, f.ResidL2First); err != nil {
		return nil, err
	}

	var numBlks int32
	if err := readField(br, &numBlks); err != nil {
		return nil, err
	}
	f.Primitive = make([]BlockData, numBlks)
	for i := range f.Primitive {
		blk, err := readBlockHeader(br)
		if err != nil {
			return nil, err
		}
		f.Primitive[i] = blk
	}
	for i := range f.Primitive {
		f.Primitive[i].Values = make([]float64, f.Primitive[i].Ni*f.Primitive[i].Nj*f.Primitive[i].Nk*f.Primitive[i].NumVars)
		if err := readFloats(br, f.Primitive[i].Values); err != nil {
			return nil, err
		}
	}

	if f.NumSols == 2 {
		f.Conserved = make([]BlockData, numBlks)
		for i := range f.Conserved {
			f.Conserved[i] = BlockData{Ni: f.Primitive[i].Ni, Nj: f.Primitive[i].Nj,
				Nk: f.Primitive[i].Nk, NumVars: f.Primitive[i].NumVars}
			f.Conserved[i].Values = make([]float64, len(f.Primitive[i].Values))
			if err := readFloats(br, f.Conserved[i].Values); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func writeBlockHeader(w io.Writer, blk BlockData) error {
	hdr := [4]int32{int32(blk.Ni), int32(blk.Nj), int32(blk.Nk), int32(blk.NumVars)}
	return writeField(w, hdr)
}

func readBlockHeader(r io.Reader) (BlockData, error) {
	var hdr [4]int32
	if err := readField(r, &hdr); err != nil {
		return BlockData{}, err
	}
	return BlockData{Ni: int(hdr[0]), Nj: int(hdr[1]), Nk: int(hdr[2]), NumVars: int(hdr[3])}, nil
}

func writeField(w io.Writer, v interface{}) error {
	if err := binary.Write(w, order, v); err != nil {
		return &ferr.IOFailure{Op: "write", Path: "<restart>", Err: err}
	}
	return nil
}

func readField(r io.Reader, v interface{}) error {
	if err := binary.Read(r, order, v); err != nil {
		return &ferr.IOFailure{Op: "read", Path: "<restart>", Err: err}
	}
	return nil
}

func writeFloats(w io.Writer, v []float64) error { return writeField(w, v) }
func readFloats(r io.Reader, v []float64) error  { return readField(r, v) }

// writeString encodes a species name as an 8-byte size_t length prefix
// (spec 4.7: "[nameSize:size_t][name:char*nameSize]") followed by the raw
// bytes, the teacher pack's guppy idiom for a length-prefixed field.
func writeString(w io.Writer, s string) error {
	if err := writeField(w, uint64(len(s))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return &ferr.IOFailure{Op: "write", Path: "<restart>", Err: err}
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var n uint64
	if err := readField(r, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", &ferr.IOFailure{Op: "read", Path: "<restart>", Err: err}
	}
	return string(buf), nil
}

// numVarsFor returns the restart schema's per-cell variable count for a
// block: density, three velocity components, pressure, the two-equation
// turbulence pair when RANS is active, then one mass fraction per
// species.
func numVarsFor(inp solverinput.Input) int {
	n := 5
	if inp.IsRANS() {
		n += 2
	}
	return n + inp.NumSpecies()
}

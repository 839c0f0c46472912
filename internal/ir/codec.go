package ir

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode writes g as msgpack.
func Encode(w io.Writer, g *Graph) error {
	if g == nil {
		return errors.New("encode: nil graph")
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(g)
}

// Decode reads a msgpack graph and checks its schema version. Structural
// validation is left to Graph.Validate.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if g.Schema != SchemaVersion {
		return nil, fmt.Errorf("decode graph: schema %d is not supported (want %d)", g.Schema, SchemaVersion)
	}
	return &g, nil
}

// LoadFile decodes the graph stored at path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveFile writes g to path atomically.
func SaveFile(path string, g *Graph) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.bgir")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, g); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

package fuzztests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bindgen/internal/codegen"
	"bindgen/internal/config"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// generateTimeout bounds a single generator run. Exceeding it points at a
// cycle the validator let through.
const generateTimeout = 5 * time.Second

func FuzzDecodeGraph(f *testing.F) {
	addGraphSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		g, err := ir.Decode(bytes.NewReader(clamp(input)))
		if err != nil {
			return
		}
		_ = g.Validate()
	})
}

func FuzzGenerate(f *testing.F) {
	addGraphSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		g, err := ir.Decode(bytes.NewReader(clamp(input)))
		if err != nil || g.Validate() != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		opts := config.Default()
		opts.LayoutTests = true
		bag := diag.NewBag(128)

		done := make(chan error, 1)
		go func() {
			_, err := codegen.Generate(ctx, g, &opts, diag.BagReporter{Bag: bag})
			done <- err
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("generator did not finish within %v", generateTimeout)
		}
	})
}

package auto

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Verify checks that every class name of the architecture table resolves to
// a class with the declared capability. All problems are reported together.
func (r *Registry) Verify(ctx context.Context) error {
	p := pool.New().
		WithMaxGoroutines(runtime.GOMAXPROCS(0)).
		WithErrors().
		WithContext(ctx)

	for _, e := range r.entries {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.verifyEntry(e)
		})
	}
	return p.Wait()
}

func (r *Registry) verifyEntry(e Entry) error {
	if len(e.Variants.Reference) == 0 && e.Variants.Accelerated == "" {
		return fmt.Errorf("%s: no tokenizer class declared", e.Arch)
	}

	for _, name := range e.Variants.Reference {
		if err := r.verifyClass(e.Arch, name, KindReference); err != nil {
			return err
		}
	}

	if name := e.Variants.Accelerated; name != "" {
		if err := r.verifyClass(e.Arch, name, KindAccelerated); err != nil {
			return err
		}
		c, _ := r.ClassByName(name)
		if len(e.Variants.Reference) > 0 && c.SlowClass != e.Variants.Reference[0] {
			return fmt.Errorf("%s: %s expects reference class %q, table declares %q",
				e.Arch, name, c.SlowClass, e.Variants.Reference[0])
		}
	}
	return nil
}

func (r *Registry) verifyClass(arch Arch, name string, kind Kind) error {
	c, err := r.ClassByName(name)
	if err != nil {
		return fmt.Errorf("%s: %w", arch, err)
	}
	if c == nil {
		return fmt.Errorf("%s: class %s not found", arch, name)
	}
	if c.Kind != kind {
		return fmt.Errorf("%s: class %s is %s, table declares %s", arch, name, c.Kind, kind)
	}
	if c.New == nil {
		return fmt.Errorf("%s: class %s has no constructor", arch, name)
	}
	return nil
}

package source

import (
	"context"
	"os"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/pkg/logger"
)

// FileSource reads previously saved upstream payloads from disk. An empty
// FixturesPath loads no fixtures.
type FileSource struct {
	BootstrapPath string
	FixturesPath  string
	Log           logger.Logger
}

// Fetch implements Source.
func (f *FileSource) Fetch(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := f.Log
	if log == nil {
		log = logger.Nop()
	}

	var p payloads
	p.bootstrap, p.bootstrapErr = os.ReadFile(f.BootstrapPath)
	if f.FixturesPath != "" {
		p.fixtures, p.fixturesErr = os.ReadFile(f.FixturesPath)
	}
	return assemble(ctx, log, f.BootstrapPath, p)
}

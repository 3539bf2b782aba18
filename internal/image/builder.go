package image

import (
	"context"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
)

// Builder builds the test-runner image for a resolved project type.
// One image per type, tagged deterministically as <registry>/<type>-test.
type Builder struct {
	cfg    *config.Config
	engine engine.Engine
	log    zerolog.Logger
}

// NewBuilder creates a new Builder
func NewBuilder(cfg *config.Config, eng engine.Engine, log zerolog.Logger) *Builder {
	return &Builder{cfg: cfg, engine: eng, log: log}
}

// Build builds (or reuses, when the engine's build cache is enabled)
// the image for the runtime. A failure aborts the entire run: no job
// may reference a missing image.
func (b *Builder) Build(ctx context.Context, rt domain.RuntimeSpec) (string, error) {
	tag := b.cfg.ImageTag(rt.ImageBase())
	contextDir := b.cfg.BuildContextDir(rt.Type)

	b.log.Info().Str("tag", tag).Str("context", contextDir).Msg("building test image")
	if err := b.engine.BuildImage(ctx, tag, contextDir, b.cfg.BuildCache); err != nil {
		return "", &domain.BuildError{Type: rt.Type, Err: err}
	}
	return tag, nil
}

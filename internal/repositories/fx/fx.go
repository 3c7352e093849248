package fx

import (
	"github.com/tapcard/story-engine/internal/repositories/story"
	"go.uber.org/fx"
)

var Module = fx.Options(
	story.Module,
)

package game

import (
	"github.com/plus3/drift/ecs"
	"github.com/plus3/drift/internal/physics"
	"go.uber.org/zap"
)

// CollisionReporter logs every contact that started during the last physics step.
type CollisionReporter struct {
	Collisions ecs.Singleton[physics.Collisions]

	logger *zap.Logger
}

func NewCollisionReporter(logger *zap.Logger) *CollisionReporter {
	return &CollisionReporter{logger: logger}
}

func (s *CollisionReporter) Execute(frame *ecs.UpdateFrame) {
	collisions := s.Collisions.Get()
	if collisions == nil {
		return
	}
	for _, c := range collisions.Started {
		if c.Boundary() {
			s.logger.Debug("space edge",
				zap.Stringer("body", c.Body),
				zap.Float64s("normal", c.Normal[:]),
				zap.Int64("frame", frame.Frame),
			)
			continue
		}
		s.logger.Debug("collision",
			zap.Stringer("body", c.Body),
			zap.Stringer("other", c.Other),
			zap.Float64s("normal", c.Normal[:]),
			zap.Int64("frame", frame.Frame),
		)
	}
}

// Package albumkeep routes incoming media files into timeline-organized
// album repositories.
//
// Example usage:
//
//	cfg := albumkeep.Config{
//	    RootDir:      "/srv/albums",
//	    InboxDir:     "/srv/inbox",
//	    MarkerSuffix: ".album",
//	    AllowedTypes: []string{"image/jpeg", "image/tiff", "video/mp4"},
//	}
//	if err := albumkeep.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package albumkeep

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/agent"
)

// Config holds the runtime configuration of the import agent.
type Config = agent.Config

// Run discovers the albums under cfg.RootDir, builds the routing index
// and imports the inbox. It blocks until the sweep finishes or, in watch
// mode, until the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return agent.Run(ctx, cfg)
}

// Logger returns the package-level zerolog logger used by the agent.
func Logger() zerolog.Logger {
	return agent.Logger()
}

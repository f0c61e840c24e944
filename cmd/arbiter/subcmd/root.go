package subcmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/arbiter"
	"github.com/viant/arbiter/service/dao"
)

const (
	lockFile  = ".lock"
	lockRetry = 50 * time.Millisecond
)

var RootCmd = &cobra.Command{
	Use:           "arbiter",
	Short:         "Lockable resource pool: allocate, inspect and administer shared resources",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// ServiceFlags locate the pool definition and its persisted state
type ServiceFlags struct {
	Definition string
	State      string
	Config     string
	Verbose    bool
}

func (f *ServiceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Definition, "definition", "d", "", "pool definition URL (YAML or JSON)")
	cmd.Flags().StringVarP(&f.State, "state", "s", "", "directory persisting resource state between runs, commands sharing it run one at a time")
	cmd.Flags().StringVarP(&f.Config, "config", "c", "", "engine config URL")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
}

// service builds an engine with the definition loaded and persisted state restored.
// With a filesystem store the state directory stays locked until unlock is called.
func (f *ServiceFlags) service(ctx context.Context) (srv *arbiter.Service, unlock func(), err error) {
	logger := logrus.StandardLogger()
	if f.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	config := arbiter.DefaultConfig()
	if f.Config != "" {
		loaded, err := arbiter.LoadConfig(ctx, location(f.Config))
		if err != nil {
			return nil, nil, err
		}
		config = loaded
	}
	if f.State != "" {
		config.Store = arbiter.StoreConfig{Vendor: dao.VendorFs, BasePath: location(f.State)}
	}
	if f.Definition != "" {
		config.Definition = location(f.Definition)
	}
	if config.Definition == "" {
		return nil, nil, fmt.Errorf("pool definition was not specified, use --definition or config definition")
	}
	unlock = func() {}
	if config.Store.Vendor == dao.VendorFs {
		if unlock, err = lockState(ctx, config.Store.BasePath); err != nil {
			return nil, nil, err
		}
	}
	if srv, err = arbiter.New(arbiter.WithConfig(config), arbiter.WithLogger(logger)); err != nil {
		unlock()
		return nil, nil, err
	}
	return srv, unlock, nil
}

// lockState takes an exclusive lock on the state directory, waiting for other commands
// until ctx is done
func lockState(ctx context.Context, dir string) (func(), error) {
	fs := afs.New()
	if exists, _ := fs.Exists(ctx, dir); !exists {
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create state directory %v: %w", dir, err)
		}
	}
	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("failed to lock state %v: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("state %v is locked by another command", dir)
	}
	logrus.Debugf("locked state %v", dir)
	return func() {
		if err := lock.Unlock(); err != nil {
			logrus.WithError(err).Warnf("failed to unlock state %v", dir)
		}
	}, nil
}

// location turns local relative paths absolute, URLs are kept as is
func location(URL string) string {
	if strings.Contains(URL, "://") {
		return URL
	}
	if abs, err := filepath.Abs(URL); err == nil {
		return abs
	}
	return URL
}

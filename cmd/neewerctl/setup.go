package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srg/neewerctl/internal/catalog"
	"github.com/srg/neewerctl/internal/identity"
	"github.com/srg/neewerctl/internal/lightctl"
	"github.com/srg/neewerctl/internal/protocol"
	"github.com/srg/neewerctl/pkg/config"
	"github.com/srg/neewerctl/scanner"
)

// loadConfig reads the YAML config named by --config, or defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openCatalog builds the capability catalog: durable cache first, then a
// best-effort remote refresh. A light can always be controlled without the
// catalog, so everything here degrades to warnings.
func openCatalog(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*catalog.Catalog, func(), error) {
	var store *catalog.Store
	cachePath, err := cfg.ResolveCachePath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(cachePath), 0o755)
	}
	if err == nil {
		store, err = catalog.OpenStore(cachePath)
	}
	if err != nil {
		logger.WithError(err).Warn("Capability cache unavailable")
	}

	cat := catalog.New(catalog.Options{
		Fetch:    catalog.HTTPFetcher(&http.Client{Timeout: cfg.FetchTimeout}, cfg.DatabaseURL),
		Store:    store,
		Interval: cfg.RefreshInterval,
		Logger:   logger,
	})

	if err := cat.LoadCache(); err != nil && !errors.Is(err, catalog.ErrNoSnapshot) {
		logger.WithError(err).Warn("Could not load cached lights database")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	if err := cat.Refresh(fetchCtx); err != nil {
		logger.WithError(err).Warn("Lights database refresh failed, using last known data")
	}

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	return cat, cleanup, nil
}

// discoverName scans briefly for the given address to learn its advertised
// name. Returns "" when the light was not seen in time.
func discoverName(ctx context.Context, address string, cfg *config.Config, logger *logrus.Logger) string {
	s := scanner.New(logger)
	found, err := s.Scan(ctx, &scanner.Options{
		Duration:        cfg.ScanDuration,
		DuplicateFilter: true,
		AllowList:       []string{address},
	})
	if err != nil {
		logger.WithError(err).Warn("Discovery scan failed")
		return ""
	}
	for _, light := range found {
		return light.Name
	}
	return ""
}

// connectSession resolves the light's identity and capabilities, dials it,
// and starts a controlling session. The returned cleanup closes both the
// session and the catalog cache.
func connectSession(ctx context.Context, cmd *cobra.Command, address, name string) (*lightctl.Session, func(), error) {
	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	cat, catCleanup, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if name == "" {
		name = discoverName(ctx, address, cfg, logger)
	}

	var (
		id         identity.Identity
		capability *catalog.LightCapability
	)
	if name != "" {
		id, err = identity.Resolve(name, address)
		if err != nil {
			var notNeewer *identity.NotANeewerDeviceError
			if errors.As(err, &notNeewer) {
				catCleanup()
				return nil, nil, fmt.Errorf("%s is not a Neewer light: %w", address, err)
			}
			logger.WithError(err).Warn("Light model not fully recognized, using conservative commands")
		}
		if id.LightType != 0 {
			capability, _ = cat.Lookup(id.LightType)
		}
	} else {
		logger.WithField("address", address).Warn("Light name unknown, using conservative commands")
	}

	var mac *protocol.MAC
	if m, ok := protocol.ParseMAC(address); ok {
		mac = &m
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	transport, err := lightctl.Dial(dialCtx, address, logger)
	if err != nil {
		catCleanup()
		return nil, nil, fmt.Errorf("connect to %s: %w", address, err)
	}

	session := lightctl.NewSession(lightctl.Options{
		Transport:  transport,
		Identity:   id,
		Capability: capability,
		MAC:        mac,
		Logger:     logger,
	})
	if err := session.Start(ctx); err != nil {
		_ = session.Close()
		catCleanup()
		return nil, nil, fmt.Errorf("start session: %w", err)
	}

	cleanup := func() {
		_ = session.Close()
		catCleanup()
	}
	return session, cleanup, nil
}

// displayName prefers the resolved nickname over the raw address.
func displayName(session *lightctl.Session, address string) string {
	if nick := session.Identity().NickName; nick != "" {
		return nick
	}
	return address
}

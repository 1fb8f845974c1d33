package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/store"
	mapset "github.com/deckarep/golang-set/v2"
)

const localCheckInterval = 1 * time.Hour

// holdRegistry is the registry as seen from the asset managers.
type holdRegistry interface {
	RegisterHoldIfNotExists(group, name string) error
	GetHolds(group string) ([]store.Hold, error)
	DeleteHold(name, group string) error
}

// LocalManager keeps the hold registry in step with the holds directory.
type LocalManager struct {
	dir    catalog.ImageDir
	groups func() []string

	registry     holdRegistry
	trackedHolds mapset.Set[string]
}

func NewLocalManager(dir catalog.ImageDir, groups func() []string, registry holdRegistry) (*LocalManager, error) {
	l := &LocalManager{
		dir:          dir,
		groups:       groups,
		registry:     registry,
		trackedHolds: mapset.NewSet[string](),
	}

	if _, err := l.dir.Scan(l.groups()); err != nil {
		slog.Warn("error reading holds directory on initialization", "path", l.dir.Path, "error", err)
		return nil, err
	}

	return l, nil
}

func holdKey(group, name string) string {
	return fmt.Sprintf("%s/%s", group, name)
}

// Run rescans on a ticker and whenever rescan fires.
func (l *LocalManager) Run(ctx context.Context, rescan <-chan struct{}) {
	ticker := time.NewTicker(localCheckInterval)
	defer ticker.Stop()

	l.scanAndRegister()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-rescan:
		}
		l.scanAndRegister()
	}
}

func (l *LocalManager) scanAndRegister() {
	assets, err := l.dir.Scan(l.groups())
	if err != nil {
		slog.Warn("error reading holds directory", "path", l.dir.Path, "error", err)
		return
	}

	current := mapset.NewSet[string]()
	for _, a := range assets {
		current.Add(holdKey(a.Group, a.Name))
	}

	if added := current.Difference(l.trackedHolds); added.Cardinality() > 0 {
		slog.Info("found new hold images", "count", added.Cardinality())
	}
	l.trackedHolds = current

	// registration follows scan order, which is sorted within a group
	for _, a := range assets {
		if err := l.registry.RegisterHoldIfNotExists(a.Group, a.Name); err != nil {
			slog.Warn("error while registering hold", "group", a.Group, "name", a.Name, "error", err)
		}
	}

	registered, err := l.registry.GetHolds("")
	if err != nil {
		slog.Warn("error getting registered holds", "error", err)
		return
	}

	var stale []store.Hold
	for _, h := range registered {
		if !current.Contains(holdKey(h.GroupName, h.HoldName)) {
			stale = append(stale, h)
		}
	}
	if len(stale) == 0 {
		return
	}

	slog.Info("deregistering holds not present locally", "count", len(stale))
	for _, h := range stale {
		if err := l.registry.DeleteHold(h.HoldName, h.GroupName); err != nil {
			slog.Warn("error while deregistering hold", "group", h.GroupName, "name", h.HoldName, "error", err)
		}
	}
}

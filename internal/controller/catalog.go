package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trialbook/internal/cache"
	"trialbook/internal/database"
	"trialbook/internal/model"
	"trialbook/internal/resource"

	"github.com/rs/zerolog/log"
)

// Catalog listings change only on reseed, so cached copies can live a while.
const catalogCacheTTL = 12 * time.Hour

// CatalogController serves the character and equipment catalog that match
// logging validates against.
type CatalogController interface {
	ListKillers(ctx context.Context) ([]model.Killer, error)
	ListSurvivors(ctx context.Context) ([]model.Survivor, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListAddons(ctx context.Context) ([]model.Addon, error)
	ListPerks(ctx context.Context, role string) ([]model.Perk, error)
	ListOfferings(ctx context.Context) ([]model.Offering, error)
	ListRealms(ctx context.Context) ([]model.Realm, error)

	// GetIconURL resolves the icon for one catalog entry, falling back to
	// the placeholder when the object store has no icon for it.
	GetIconURL(ctx context.Context, category resource.IconCategory, name string) (string, error)

	// ReplaceCatalog swaps the full catalog and invalidates cached listings.
	ReplaceCatalog(ctx context.Context, catalog *database.Catalog) error
}

type catalogController struct {
	db    database.Database
	cache cache.Cache
	icons resource.IconStore
}

func NewCatalog(db database.Database, c cache.Cache, icons resource.IconStore) CatalogController {
	return &catalogController{
		db:    db,
		cache: c,
		icons: icons,
	}
}

// cachedList wraps a listing in a read-through cache.
func cachedList[T any](ctx context.Context, c cache.Cache, key string,
	load func(context.Context) ([]T, error)) ([]T, error) {

	var cached []T
	err := cache.GetJSON(ctx, c, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed, loading from database")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, c, key, items, catalogCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("unable to cache catalog listing")
	}
	return items, nil
}

func (cc *catalogController) ListKillers(ctx context.Context) ([]model.Killer, error) {
	return cachedList(ctx, cc.cache, "catalog:killers", cc.db.ListKillers)
}

func (cc *catalogController) ListSurvivors(ctx context.Context) ([]model.Survivor, error) {
	return cachedList(ctx, cc.cache, "catalog:survivors", cc.db.ListSurvivors)
}

func (cc *catalogController) ListItems(ctx context.Context) ([]model.Item, error) {
	return cachedList(ctx, cc.cache, "catalog:items", cc.db.ListItems)
}

func (cc *catalogController) ListAddons(ctx context.Context) ([]model.Addon, error) {
	return cachedList(ctx, cc.cache, "catalog:addons", cc.db.ListAddons)
}

func (cc *catalogController) ListPerks(ctx context.Context, role string) ([]model.Perk, error) {
	if role != "" && role != model.KillerRole && role != model.SurvivorRole {
		return nil, fmt.Errorf("unknown perk role: %v", role)
	}
	key := "catalog:perks"
	if role != "" {
		key = key + ":" + role
	}
	return cachedList(ctx, cc.cache, key, func(ctx context.Context) ([]model.Perk, error) {
		return cc.db.ListPerks(ctx, role)
	})
}

func (cc *catalogController) ListOfferings(ctx context.Context) ([]model.Offering, error) {
	return cachedList(ctx, cc.cache, "catalog:offerings", cc.db.ListOfferings)
}

func (cc *catalogController) ListRealms(ctx context.Context) ([]model.Realm, error) {
	return cachedList(ctx, cc.cache, "catalog:realms", cc.db.ListRealms)
}

func (cc *catalogController) GetIconURL(ctx context.Context, category resource.IconCategory, name string) (string, error) {
	url, err := cc.icons.IconURL(ctx, category, name)
	if err != nil {
		if errors.Is(err, resource.ErrIconMissing) {
			// Placeholder URL is already filled in; surface it without error.
			return url, nil
		}
		return "", err
	}
	return url, nil
}

func (cc *catalogController) ReplaceCatalog(ctx context.Context, catalog *database.Catalog) error {
	if err := validateCatalog(catalog); err != nil {
		return err
	}

	if err := cc.db.ReplaceCatalog(ctx, catalog); err != nil {
		return err
	}

	for _, key := range []string{
		"catalog:killers", "catalog:survivors", "catalog:items", "catalog:addons",
		"catalog:perks", "catalog:perks:" + model.KillerRole, "catalog:perks:" + model.SurvivorRole,
		"catalog:offerings", "catalog:realms",
	} {
		if err := cc.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("unable to invalidate catalog cache")
		}
	}

	log.Info().
		Int("killers", len(catalog.Killers)).
		Int("survivors", len(catalog.Survivors)).
		Int("realms", len(catalog.Realms)).
		Msg("Catalog replaced")

	return nil
}

// validateCatalog rejects obviously broken catalogs before they wipe the
// existing one.
func validateCatalog(catalog *database.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalog is empty")
	}
	if len(catalog.Killers) == 0 || len(catalog.Survivors) == 0 {
		return fmt.Errorf("catalog must contain at least one killer and one survivor")
	}

	killerIDs := make(map[string]struct{}, len(catalog.Killers))
	for _, k := range catalog.Killers {
		if k.KillerName == "" || k.KillerAlias == "" {
			return fmt.Errorf("killer entries need both a name and an alias")
		}
		killerIDs[k.ID.Hex()] = struct{}{}
	}

	for _, a := range catalog.Addons {
		if a.ForKiller() == (a.ItemType != "") {
			return fmt.Errorf("addon %q must target exactly one of a killer or an item type", a.AddonName)
		}
		if a.ForKiller() {
			if _, ok := killerIDs[a.KillerID.Hex()]; !ok {
				return fmt.Errorf("addon %q references an unknown killer", a.AddonName)
			}
		}
	}

	for _, p := range catalog.Perks {
		if p.PerkTier < 1 || p.PerkTier > 3 {
			return fmt.Errorf("perk %q has tier %d, want 1-3", p.PerkName, p.PerkTier)
		}
		if p.Role != model.KillerRole && p.Role != model.SurvivorRole {
			return fmt.Errorf("perk %q has unknown role %q", p.PerkName, p.Role)
		}
	}

	for _, r := range catalog.Realms {
		if len(r.Maps) == 0 {
			return fmt.Errorf("realm %q has no maps", r.RealmName)
		}
	}

	return nil
}

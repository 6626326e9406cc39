package main

import (
	"context"
	"encoding/json"
	"os"

	"trialbook/internal/cache"
	"trialbook/internal/config"
	"trialbook/internal/controller"
	"trialbook/internal/database"
	"trialbook/internal/resource"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// seedFile extends the catalog bundle with optional source URLs for icons
// to mirror into the object store.
type seedFile struct {
	database.Catalog
	IconSources []iconSource `json:"icon_sources,omitempty"`
}

type iconSource struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if len(os.Args) < 3 {
		log.Fatal().Msg("Usage: seed <config_path> <catalog_json>")
	}

	cfg, err := config.LoadConfig(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	raw, err := os.ReadFile(os.Args[2])
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read catalog file")
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse catalog file")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	iconStore, err := resource.NewS3IconStore(cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Bucket, cfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize icon store")
	}

	ctx := context.Background()
	cc := controller.NewCatalog(db, redisCache, iconStore)

	if err := cc.ReplaceCatalog(ctx, &seed.Catalog); err != nil {
		log.Fatal().Err(err).Msg("Failed to replace catalog")
	}

	log.Info().
		Int("killers", len(seed.Killers)).
		Int("survivors", len(seed.Survivors)).
		Int("items", len(seed.Items)).
		Int("addons", len(seed.Addons)).
		Int("perks", len(seed.Perks)).
		Int("offerings", len(seed.Offerings)).
		Int("realms", len(seed.Realms)).
		Msg("Catalog seeded")

	mirrored, failed := 0, 0
	for _, src := range seed.IconSources {
		category, ok := iconCategory(src.Category)
		if !ok {
			log.Warn().Str("category", src.Category).Str("name", src.Name).Msg("Unknown icon category, skipping")
			failed++
			continue
		}

		url, err := iconStore.MirrorFromURL(ctx, category, src.Name, src.URL)
		if err != nil {
			log.Warn().Err(err).Str("name", src.Name).Msg("Failed to mirror icon")
			failed++
			continue
		}
		log.Debug().Str("name", src.Name).Str("url", url).Msg("Mirrored icon")
		mirrored++
	}

	if len(seed.IconSources) > 0 {
		log.Info().Int("mirrored", mirrored).Int("failed", failed).Msg("Icon mirroring complete")
	}
}

func iconCategory(name string) (resource.IconCategory, bool) {
	switch name {
	case "killers":
		return resource.KillerIcons, true
	case "survivors":
		return resource.SurvivorIcons, true
	case "items":
		return resource.ItemIcons, true
	case "addons":
		return resource.AddonIcons, true
	case "perks":
		return resource.PerkIcons, true
	case "offerings":
		return resource.OfferingIcons, true
	case "maps":
		return resource.MapIcons, true
	}
	return "", false
}

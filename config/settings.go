package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	AppVersion             = "v1.0.0"
	AppPort                = "3000"
	AppDebug               = false
	AppBasicAuthCredential []string
	AppBasePath            = ""
	AppTrustedProxies      []string // Trusted proxy IP ranges (e.g., "0.0.0.0/0" for all, or specific CIDRs)

	PathStorages = "storages"

	// Vision provider settings. Output stays small (one compact JSON
	// object), so the token budget is deliberately tight.
	VisionProvider           = "gemini"
	VisionModel              = "gemini-2.5-flash"
	VisionMaxTokens          = 200
	VisionTemperature        = 0.85
	VisionTimeoutSeconds     = 30
	AIMaxImageBytes    int64 = 4 * 1024 * 1024

	// Insight cache settings
	CacheHitDelayMs         = 800
	CacheMaxSizeBytes int64 = 0 // 0 = unlimited
	CacheStoreURI           = "storages/insights.db"

	ValkeyEnabled   = false
	ValkeyAddress   = "localhost:6379"
	ValkeyPassword  = ""
	ValkeyDB        = 0
	ValkeyKeyPrefix = "alfredvision"

	GalleryBaseURL  = "https://hackatransparency.org"
	GalleryManifest = []string{
		"/images/day-1/02057cdb-c576-4658-9853-1c0efa62ad5a.JPG",
		"/images/day-1/07cef934-bf43-4636-9f34-2fe4c972ce4d.JPG",
		"/images/day-1/0cc61055-8832-4115-9a0b-ee0e96536075.JPG",
		"/images/day-1/10a47bfb-b28e-4988-a9b6-51728b1afc1e.JPG",
		"/images/day-1/117a748e-21c5-439e-a893-c16d1912647f.JPG",
		"/images/day-1/24135536-ebfe-499c-9929-556d8db2dfcc.JPG",
		"/images/day-1/3acd42d2-0366-4264-8374-060447d945a1.JPG",
		"/images/day-1/6b5be185-82e2-4cfe-bd90-5636a3cf850b.JPG",
		"/images/day-1/IMG_2086.JPG",
		"/images/day-1/IMG_6640.JPG",
		"/images/day-1/IMG_7678.JPG",
		"/images/day-1/a46001a0-00a9-49c6-a4c7-8aeef112411c.JPG",
		"/images/day-1/a5cceff7-1933-4722-a8c8-2e1417d94d02.JPG",
		"/images/day-1/b28a5947-a7bd-43f8-857e-c243133ee11c.JPG",
		"/images/day-1/be2a3ff9-3873-4fc5-b81a-806e30364663.JPG",
		"/images/day-1/d8d77a44-9849-4d14-a448-673ab2b874e5.JPG",
		"/images/day-1/dea13fa2-93fa-493a-a029-9ad252a74846.JPG",
		"/images/day-1/f49c9fcf-db33-40d5-984d-a4fe7a7d7def.JPG",
	}

	DatastoreBaseURL = "https://datastore.open-contracting.org/api/projects"
)

func init() {
	if v := strings.TrimSpace(os.Getenv("VISION_PROVIDER")); v != "" {
		VisionProvider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("VISION_MODEL")); v != "" {
		VisionModel = v
	}
	if v := strings.TrimSpace(os.Getenv("VISION_MAX_TOKENS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			VisionMaxTokens = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("VISION_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			VisionTemperature = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("VISION_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			VisionTimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("AI_MAX_IMAGE_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			AIMaxImageBytes = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CACHE_HIT_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			CacheHitDelayMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_MAX_SIZE_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			CacheMaxSizeBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_STORE_URI")); v != "" {
		CacheStoreURI = v
	}

	if v := strings.TrimSpace(os.Getenv("VALKEY_ENABLED")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y", "on":
			ValkeyEnabled = true
		case "0", "false", "no", "n", "off":
			ValkeyEnabled = false
		}
	}
	if v := strings.TrimSpace(os.Getenv("VALKEY_ADDRESS")); v != "" {
		ValkeyAddress = v
	}
	if v := os.Getenv("VALKEY_PASSWORD"); v != "" {
		ValkeyPassword = v
	}
	if v := strings.TrimSpace(os.Getenv("VALKEY_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ValkeyDB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("VALKEY_KEY_PREFIX")); v != "" {
		ValkeyKeyPrefix = v
	}

	if v := strings.TrimSpace(os.Getenv("GALLERY_BASE_URL")); v != "" {
		GalleryBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GALLERY_MANIFEST")); v != "" {
		var manifest []string
		for _, ref := range strings.Split(v, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				manifest = append(manifest, ref)
			}
		}
		if len(manifest) > 0 {
			GalleryManifest = manifest
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATASTORE_BASE_URL")); v != "" {
		DatastoreBaseURL = v
	}
}

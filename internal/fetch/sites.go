// Package fetch - sites.go provides obituary-site detection and site-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Site represents a known obituary publishing site.
type Site string

const (
	// SiteLegacy is the Legacy.com network
	SiteLegacy Site = "legacy"
	// SiteDignityMemorial is the Dignity Memorial funeral home network
	SiteDignityMemorial Site = "dignitymemorial"
	// SiteFindAGrave is the Find a Grave memorial site
	SiteFindAGrave Site = "findagrave"
	// SiteTributeArchive is the Tribute Archive network
	SiteTributeArchive Site = "tributearchive"
	// SiteUnknown is an unrecognized site
	SiteUnknown Site = "unknown"
)

// DetectSite identifies the obituary site from a URL.
func DetectSite(urlStr string) Site {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return SiteUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "legacy.com") {
		return SiteLegacy
	}
	if strings.Contains(host, "dignitymemorial.com") {
		return SiteDignityMemorial
	}
	if strings.Contains(host, "findagrave.com") {
		return SiteFindAGrave
	}
	if strings.Contains(host, "tributearchive.com") {
		return SiteTributeArchive
	}

	return SiteUnknown
}

// SiteContentSelectors returns content selectors optimized for a specific site.
func SiteContentSelectors(site Site) []string {
	switch site {
	case SiteLegacy:
		return []string{
			"[data-component='ObituaryText']", // Primary Legacy.com selector
			".obituary-text",                  // Fallback
			"#obituary-text",
			".Obituary__content",
			"main",
		}
	case SiteDignityMemorial:
		return []string{
			".obituary-container",
			".short-bio",
			".obituary-text",
			"#obituary",
			"main",
		}
	case SiteFindAGrave:
		return []string{
			"#partBio",
			"#inscriptionValue",
			".bio-wrapper",
			".memorial-content",
			"main",
		}
	case SiteTributeArchive:
		return []string{
			".obituary-description",
			".tribute-content",
			".obituary",
			"main",
		}
	default:
		return ObituaryPageSelectors()
	}
}

// SiteNoiseSelectors returns noise exclusion selectors for a specific site.
func SiteNoiseSelectors(site Site) []string {
	// Common noise selectors for all obituary sites
	common := []string{
		// Condolence and guest book forms
		"form",
		"#guestbook",
		".guest-book",
		".condolence-form",
		".sign-guestbook",

		// Flowers, trees, and gift commerce
		".send-flowers",
		".flower-delivery",
		".plant-a-tree",
		".sympathy-store",
		".gift-shop",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Cross-links to other notices
		".related-obituaries",
		".more-obituaries",

		// Generic navigation already handled in fetch.go
	}

	switch site {
	case SiteLegacy:
		return append(common,
			"[data-component='GuestBook']",
			"[data-component='SympathyAds']",
			".memorial-trees",
		)
	case SiteDignityMemorial:
		return append(common,
			".service-cta",
			".share-obituary",
			".location-info",
		)
	case SiteFindAGrave:
		return append(common,
			".sponsor-memorial",
			".add-flowers",
			"#photo-carousel",
		)
	case SiteTributeArchive:
		return append(common,
			".send-flowers-cta",
			".share-bar",
		)
	default:
		return common
	}
}

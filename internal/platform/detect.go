package platform

import (
	"net/url"
	"strings"
)

// Known media platforms
const (
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformUnknown   = "unknown"
)

// Host suffixes per platform
var platformHosts = []struct {
	platform string
	hosts    []string
}{
	{PlatformYouTube, []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformInstagram, []string{"instagram.com"}},
	{PlatformFacebook, []string{"facebook.com", "fb.com", "fb.watch"}},
}

// DetectPlatform returns the platform a URL belongs to, or PlatformUnknown.
// It is informational only; unknown URLs are still handed to the fetcher.
func DetectPlatform(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return PlatformUnknown
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

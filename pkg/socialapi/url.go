package socialapi

import (
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

var tiktokRe = regexp.MustCompile(`/video/([^?/&]*)`)

const shortcodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// MediaID extracts the provider media id from a post URL
func MediaID(platform Platform, postURL string) (string, error) {
	switch platform {
	case Tiktok:
		m := tiktokRe.FindStringSubmatch(postURL)
		if m == nil || m[1] == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidURL, postURL)
		}
		return m[1], nil
	case Instagram:
		return instagramMediaID(postURL)
	default:
		return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidURL, platform)
	}
}

// instagramMediaID decodes the shortcode of /p/, /reel/ and /tv/ links into
// the numeric media pk. Only the first 11 characters encode the pk.
func instagramMediaID(postURL string) (string, error) {
	u, err := url.Parse(postURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, postURL)
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	var code string
	for i := 0; i+1 < len(parts); i++ {
		switch parts[i] {
		case "p", "reel", "reels", "tv":
			code = parts[i+1]
		}
	}
	if code == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, postURL)
	}
	if len(code) > 11 {
		code = code[:11]
	}

	pk := new(big.Int)
	base := big.NewInt(int64(len(shortcodeAlphabet)))
	for _, ch := range code {
		idx := strings.IndexRune(shortcodeAlphabet, ch)
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrInvalidURL, postURL)
		}
		pk.Mul(pk, base)
		pk.Add(pk, big.NewInt(int64(idx)))
	}
	return pk.String(), nil
}

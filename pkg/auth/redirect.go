package auth

import (
	"net/url"
	"regexp"
	"strings"
)

// Query-fragment extractors. The provider appends its own parameters in an
// order that depends on the success/error/sign-out context, so destinations
// are recovered by ordered first-match patterns rather than a single parse.
var (
	errorParamRe        = regexp.MustCompile(`[?&]error=([^&]+)`)
	autoRegisterParamRe = regexp.MustCompile(`[?&]autoRegister=([^&]+)`)
	tierParamRe         = regexp.MustCompile(`[?&]tier=([^&]+)`)

	embeddedTargetRes = []*regexp.Regexp{
		regexp.MustCompile(`[?&]callbackUrl=([^&]+)`),
		regexp.MustCompile(`callbackUrl=([^&]+)`),
		regexp.MustCompile(`[?&]redirect_uri=([^&]+)`),
	}
)

const callbackPathMarker = "/auth/google/callback"

// ResolveRedirect maps the raw post-login URL onto the page the browser
// should land on. Pure: no clock, no store, no I/O. Rules apply in order,
// first match wins:
//
//  1. deactivation marker anywhere in the URL → deactivated-account page
//  2. sign-out marker → site root
//  3. provider callback carrying both an error code and a staged
//     registration → registration page annotated with plan and error
//  4. provider callback → recover the embedded destination, accepting it
//     only when same-origin or root-relative
//  5. any other same-origin URL passes through unchanged
//  6. login page
func ResolveRedirect(rawURL, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")

	if strings.Contains(rawURL, "account_deactivated") {
		return base + "/account-deactivated"
	}
	if strings.Contains(rawURL, "signout") {
		return base + "/"
	}

	isCallback := strings.Contains(rawURL, callbackPathMarker)

	if isCallback {
		if errCode := firstMatch(errorParamRe, rawURL); errCode != "" && hasRegistrationMarker(rawURL) {
			return base + "/register?tier=" + string(stagedTier(rawURL)) + "&error=" + errCode
		}
		if target := extractEmbeddedTarget(rawURL, base); target != "" {
			return target
		}
		return base + "/login"
	}

	if strings.HasPrefix(rawURL, base+"/") || rawURL == base {
		return rawURL
	}

	return base + "/login"
}

func hasRegistrationMarker(rawURL string) bool {
	return firstMatch(autoRegisterParamRe, rawURL) != "" || firstMatch(tierParamRe, rawURL) != ""
}

// stagedTier recovers the plan staged before the provider redirect, falling
// back through autoRegister= then tier=, defaulting to the base plan.
func stagedTier(rawURL string) Tier {
	if v := firstMatch(autoRegisterParamRe, rawURL); v != "" {
		if unescaped, err := url.QueryUnescape(v); err == nil {
			if t := Tier(unescaped); t.Valid() {
				return t
			}
		}
	}
	if v := firstMatch(tierParamRe, rawURL); v != "" {
		if unescaped, err := url.QueryUnescape(v); err == nil {
			return ParseTier(unescaped)
		}
	}
	return TierDeveloper
}

// extractEmbeddedTarget tries the ordered destination patterns and returns
// the first match that survives the allow-list: same-origin absolute URLs
// and root-relative paths only. Returns "" when nothing safe was embedded.
func extractEmbeddedTarget(rawURL, base string) string {
	for _, re := range embeddedTargetRes {
		v := firstMatch(re, rawURL)
		if v == "" {
			continue
		}
		unescaped, err := url.QueryUnescape(v)
		if err != nil {
			return ""
		}
		if strings.HasPrefix(unescaped, "/") && !strings.HasPrefix(unescaped, "//") {
			return base + unescaped
		}
		if unescaped == base || strings.HasPrefix(unescaped, base+"/") {
			return unescaped
		}
		// First positive match decides; a cross-origin value is rejected,
		// not skipped in favor of a later pattern.
		return ""
	}
	return ""
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

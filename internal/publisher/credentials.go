package publisher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
)

var requiredCredentials = map[string][]string{
	models.PlatformTwitter:   {"api_key", "api_secret", "access_token", "access_token_secret"},
	models.PlatformFacebook:  {"app_id", "app_secret", "access_token"},
	models.PlatformInstagram: {"app_id", "app_secret", "access_token"},
	models.PlatformLinkedIn:  {"client_id", "client_secret", "access_token"},
	models.PlatformTiktok:    {"client_key", "client_secret", "access_token"},
	models.PlatformYoutube:   {"api_key"},
}

// RequiredCredentials lists the keys a platform type must carry. Custom
// types return nil and only need one non-empty key.
func RequiredCredentials(platformType string) []string {
	return requiredCredentials[strings.ToLower(platformType)]
}

// ValidateCredentials reports the missing keys for platformType.
func ValidateCredentials(platformType string, creds Credentials) error {
	required := RequiredCredentials(platformType)
	if required == nil {
		for _, v := range creds {
			if v != "" {
				return nil
			}
		}
		return apperror.Invalid("custom platforms need at least one credential")
	}

	var missing []string
	for _, k := range required {
		if creds[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperror.Invalid("missing %s credentials: %s", platformType, strings.Join(missing, ", "))
	}
	return nil
}

// Redact returns the credential keys with masked values, for API responses.
func Redact(creds Credentials) map[string]string {
	out := make(map[string]string, len(creds))
	for k, v := range creds {
		if len(v) <= 4 {
			out[k] = strings.Repeat("*", len(v))
			continue
		}
		out[k] = fmt.Sprintf("%s%s", strings.Repeat("*", len(v)-4), v[len(v)-4:])
	}
	return out
}

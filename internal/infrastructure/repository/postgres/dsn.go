package postgres

import "net/url"

// NormalizeDSN adds disable_prepared_binary_result=yes to URL-style DSNs that do not set it.
// Key/value DSNs and disabled normalization return raw unchanged.
func NormalizeDSN(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

package config

// mergeMaps deep-merges src into dst. Nested maps are merged key by key;
// any other value in src replaces the one in dst. Nested maps taken from
// src are copied so later merges never write into a source's own data.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		mv, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(mv))
			dst[k] = existing
		}
		mergeMaps(existing, mv)
	}
}

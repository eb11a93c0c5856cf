// Package extract locates artifact URLs inside loosely-structured upstream
// payloads. Backends wrap their output at different nesting depths, so each
// media kind probes a fixed list of shapes, most specific first; the first
// match wins. Finding nothing is not an error at this layer.
package extract

import "github.com/tidwall/gjson"

// ImageURLs returns the image locators in a payload. The plural images
// sequence takes priority over any singular field; its entries may be bare
// strings or objects with a url attribute. When the sequence is absent or
// empty, singular fallbacks apply.
func ImageURLs(raw []byte) []string {
	if images := gjson.GetBytes(raw, "images"); images.IsArray() {
		var urls []string
		images.ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.Type == gjson.String && item.String() != "":
				urls = append(urls, item.String())
			case item.Get("url").Type == gjson.String && item.Get("url").String() != "":
				urls = append(urls, item.Get("url").String())
			}
			return true
		})
		if len(urls) > 0 {
			return urls
		}
	}
	if url := firstString(raw, "image.url", "image", "output.url", "output", "url"); url != "" {
		return []string{url}
	}
	return nil
}

// VideoURL returns the video locator in a payload, or "" when none matches.
func VideoURL(raw []byte) string {
	return firstString(raw, "video.url", "video", "output.url", "output", "url")
}

// AudioURL returns the audio locator in a payload, or "" when none matches.
func AudioURL(raw []byte) string {
	return firstString(raw, "audio.url", "audio", "audio_url", "audio_file.url", "output.url", "output", "url")
}

// ModelURL returns the 3D asset locator in a payload, or "" when none
// matches. Mesh backends expose mesh- and glb-specific fields on top of the
// generic wrappers.
func ModelURL(raw []byte) string {
	return firstString(raw,
		"model_mesh.url", "model_mesh", "mesh.url", "model_glb.url", "model_url",
		"output.url", "output", "url")
}

// firstString probes paths in order and returns the first non-empty string
// value.
func firstString(raw []byte, paths ...string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

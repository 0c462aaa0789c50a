package products

import "encoding/json"

// ParseImages decodes the JSON array kept in the images column. Empty, null or
// malformed content yields an empty, non-nil list.
func ParseImages(raw string) []string {
	images := []string{}
	if raw == "" {
		return images
	}
	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return images
	}
	for _, img := range decoded {
		if img != "" {
			images = append(images, img)
		}
	}
	return images
}

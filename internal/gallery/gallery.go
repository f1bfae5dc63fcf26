package gallery

import "sort"

// Image is one entry of a resource's image gallery.
type Image struct {
	URL          string `json:"image_url"`
	AltText      string `json:"alt_text,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// Images is an ordered gallery. Invariant: display order is dense starting
// at zero, and exactly one image is primary whenever the gallery is
// non-empty. Every mutator re-establishes the invariant.
type Images []Image

// Append adds an image at the end. The first image of a gallery becomes
// primary automatically.
func (imgs Images) Append(url, altText string) Images {
	img := Image{
		URL:          url,
		AltText:      altText,
		DisplayOrder: len(imgs),
		IsPrimary:    len(imgs) == 0,
	}
	return append(imgs, img)
}

// Remove deletes the image at index i and reindexes the rest. If the
// primary image was removed, the first remaining image is promoted.
func (imgs Images) Remove(i int) Images {
	if i < 0 || i >= len(imgs) {
		return imgs
	}
	wasPrimary := imgs[i].IsPrimary
	out := make(Images, 0, len(imgs)-1)
	out = append(out, imgs[:i]...)
	out = append(out, imgs[i+1:]...)
	for j := range out {
		out[j].DisplayOrder = j
	}
	if wasPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}

// SetPrimary marks the image at index i as primary and clears every other
// primary flag.
func (imgs Images) SetPrimary(i int) Images {
	if i < 0 || i >= len(imgs) {
		return imgs
	}
	out := make(Images, len(imgs))
	copy(out, imgs)
	for j := range out {
		out[j].IsPrimary = j == i
	}
	return out
}

// Primary returns the primary image, or ok=false for an empty gallery.
func (imgs Images) Primary() (Image, bool) {
	for _, img := range imgs {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(imgs) > 0 {
		return imgs[0], true
	}
	return Image{}, false
}

// Normalize repairs a gallery received from the backend: sorts by display
// order, reindexes densely and enforces the single-primary invariant.
func (imgs Images) Normalize() Images {
	out := make(Images, len(imgs))
	copy(out, imgs)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DisplayOrder < out[b].DisplayOrder
	})

	seenPrimary := false
	for j := range out {
		out[j].DisplayOrder = j
		if out[j].IsPrimary {
			if seenPrimary {
				out[j].IsPrimary = false
			}
			seenPrimary = true
		}
	}
	if !seenPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}

// URLs returns the gallery's URLs in display order.
func (imgs Images) URLs() []string {
	urls := make([]string, len(imgs))
	for i, img := range imgs {
		urls[i] = img.URL
	}
	return urls
}

package types

import "strings"

// Image folders under the public base URL.
const (
	ImageFolderProducts   = "products"
	ImageFolderCategories = "categories"
	ImageFolderBrands     = "brands"
	ImageFolderUsers      = "users"
)

// ImageURL maps a stored image name to its public URL. Stored values that are
// already absolute URLs are returned unchanged.
func ImageURL(baseURL, folder, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return strings.TrimRight(baseURL, "/") + "/" + folder + "/" + strings.TrimLeft(name, "/")
}

// ImageURLs maps every name with ImageURL.
func ImageURLs(baseURL, folder string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if url := ImageURL(baseURL, folder, name); url != "" {
			out = append(out, url)
		}
	}
	return out
}

// OptionalImageURL maps a nullable image name.
func OptionalImageURL(baseURL, folder string, name *string) *string {
	if name == nil {
		return nil
	}
	url := ImageURL(baseURL, folder, *name)
	if url == "" {
		return nil
	}
	return &url
}

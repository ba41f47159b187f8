package preprocess

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookproc/internal/assets"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// linkSeparator keeps appended markup from merging into the last paragraph.
const linkSeparator = "\n\n"

// ChapterDepth counts the directories between srcDir and chapterDir.
// A chapter directly in srcDir has depth 0.
func ChapterDepth(srcDir, chapterDir string) (int, error) {
	rel, err := filepath.Rel(srcDir, chapterDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, errors.ValidationError("chapter directory outside source directory").
			WithContext("path", chapterDir).
			WithContext("src", srcDir).
			Build()
	}
	if rel == "." {
		return 0, nil
	}
	return len(strings.Split(filepath.ToSlash(rel), "/")), nil
}

// AssetPath is the URL path from a chapter at depth to namespace/name.
// Generated pages mirror the source layout, so each level needs one "..".
func AssetPath(depth int, namespace, name string) string {
	return strings.Repeat("../", max(depth, 0)) + namespace + "/" + name
}

// RenderLink returns the tag embedding the asset at assetPath. ok is false for
// extensions that have no embed form; those assets are skipped. Extensions
// match case-sensitively, so "a.CSS" is not linked.
func RenderLink(assetPath string) (link string, ok bool) {
	switch path.Ext(assetPath) {
	case ".js":
		return fmt.Sprintf(`<script type="text/javascript" src="%s"></script>`, assetPath), true
	case ".mjs":
		return fmt.Sprintf(`<script type="module" src="%s"></script>`, assetPath), true
	case ".css":
		return fmt.Sprintf(`<link rel="stylesheet" type="text/css" href="%s">`, assetPath), true
	default:
		return "", false
	}
}

// AppendLinks appends the embed tags for linked to content, in order.
func AppendLinks(content string, depth int, namespace string, linked []assets.Asset) string {
	var b strings.Builder
	b.WriteString(content)
	b.WriteString(linkSeparator)
	for _, a := range linked {
		if link, ok := RenderLink(AssetPath(depth, namespace, a.Name)); ok {
			b.WriteString(link)
		}
	}
	return b.String()
}

package variants

// Size codes run 0..6. The backend stores the code; the console renders
// the garment label.
var sizeLabels = [...]string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// SizeLabel resolves a size code to its garment label. Unknown codes and
// unsized variants (nil) render as empty.
func SizeLabel(code *int) string {
	if code == nil || *code < 0 || *code >= len(sizeLabels) {
		return ""
	}
	return sizeLabels[*code]
}

package recognize

import "strconv"

// Tesseract page segmentation modes relevant to scanned answer sheets.
const (
	PSMAutoPage    = 3
	PSMSingleBlock = 6
	PSMSingleLine  = 7
)

// WithTesseractPSM sets the page segmentation mode for the tesseract engine.
// Answer sheets are usually one uniform block of text, so the extraction
// pipeline passes PSMSingleBlock.
func WithTesseractPSM(mode int) InputOption {
	return withMetadata("tessedit_pageseg_mode", strconv.Itoa(mode))
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return withMetadata("tessedit_char_whitelist", chars)
}

func withMetadata(key, value string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata[key] = value
	}
}

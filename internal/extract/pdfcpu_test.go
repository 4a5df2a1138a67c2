// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFromContentStream(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "single Tj",
			stream: "BT /F1 12 Tf 72 712 Td (LIVRE PREMIER) Tj ET",
			want:   "LIVRE PREMIER",
		},
		{
			name:   "vertical Td starts a line",
			stream: "BT 72 712 Td (TITRE PREMIER) Tj 0 -14 Td (1.) Tj ET",
			want:   "TITRE PREMIER\n1.",
		},
		{
			name:   "horizontal Td inserts a space",
			stream: "BT (Des) Tj 20 0 Td (biens) Tj ET",
			want:   "Des biens",
		},
		{
			name:   "TJ array joins pieces",
			stream: "BT [(CHA) -20 (PITRE) 10 ( I)] TJ ET",
			want:   "CHAPITRE I",
		},
		{
			name:   "T* and quote operators",
			stream: "BT (a) Tj T* (b) Tj (c) ' 1 2 (d) \" ET",
			want:   "a\nb\nc\nd",
		},
		{
			name:   "escapes and nested parentheses",
			stream: `BT (art. \(1\) \050a\051 (b)) Tj ET`,
			want:   "art. (1) (a) (b)",
		},
		{
			name:   "separate text objects",
			stream: "BT (one) Tj ET\nBT (two) Tj ET",
			want:   "one\ntwo",
		},
		{
			name:   "hex string",
			stream: "BT <4C4956524520> Tj ET",
			want:   "LIVRE",
		},
		{
			name:   "windows-1252 bytes",
			stream: "BT (PR\xC9LIMINAIRE) Tj ET",
			want:   "PRÉLIMINAIRE",
		},
		{
			name:   "utf-16 hex string",
			stream: "BT <FEFF00C9002E> Tj ET",
			want:   "É.",
		},
		{
			name:   "dictionaries names and comments skipped",
			stream: "% comment (ignored) Tj\n/P <</MCID 0>> BDC BT (kept) Tj ET EMC",
			want:   "kept",
		},
		{
			name:   "no text",
			stream: "q 1 0 0 1 0 0 cm Q",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromContentStream([]byte(tt.stream)))
		})
	}
}

func TestDecodePDFText(t *testing.T) {
	assert.Equal(t, "déjà", decodePDFText([]byte("déjà")))
	assert.Equal(t, "§ 1", decodePDFText([]byte{0xA7, ' ', '1'}))
	assert.Equal(t, "", decodePDFText(nil))
}

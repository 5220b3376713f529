// AngelaMos | 2026
// storage_test.go

package contest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

func TestCheckScriptName(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantErr error
	}{
		{name: "speech.HWP", wantExt: ".hwp"},
		{name: "speech.pdf", wantExt: ".pdf"},
		{name: "speech.final.docx", wantExt: ".docx"},
		{name: "install.exe", wantErr: ErrBlockedFileType},
		{name: "run.PS1", wantErr: ErrBlockedFileType},
		{name: "notes.txt", wantErr: ErrUnsupportedFileType},
		{name: "noextension", wantErr: ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := CheckScriptName(tt.name)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestFileStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root, 1024)

	content := []byte("%PDF-1.7\n" + strings.Repeat("a", 200))
	rel, err := store.Save(2026, "speech.pdf", bytes.NewReader(content))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "contest/scripts/2026/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	saved, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, content, saved)

	require.NoError(t, store.Remove(rel))
	require.NoError(t, store.Remove(rel))
}

func TestFileStoreRejectsOversizedFile(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root, 16)

	_, err := store.Save(2026, "speech.pdf", strings.NewReader("%PDF-1.7\n"+strings.Repeat("x", 64)))
	require.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(filepath.Join(root, "contest", "scripts", "2026"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStoreRejectsDisguisedExecutable(t *testing.T) {
	store := NewFileStore(t.TempDir(), 1024)

	_, err := store.Save(2026, "speech.pdf", strings.NewReader("#!/bin/sh\nrm -rf /\n"))
	require.ErrorIs(t, err, ErrExecutableContent)

	pe := append([]byte("MZ"), make([]byte, 128)...)
	_, err = store.Save(2026, "speech.doc", bytes.NewReader(pe))
	require.ErrorIs(t, err, ErrExecutableContent)
}

func TestFileStoreRequiresMatchingContent(t *testing.T) {
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...)
	zip := append([]byte("PK\x03\x04"), make([]byte, 64)...)

	tests := []struct {
		name     string
		fileName string
		content  []byte
		wantErr  error
	}{
		{name: "pdf", fileName: "speech.pdf", content: []byte("%PDF-1.7\n")},
		{name: "hwp", fileName: "speech.hwp", content: ole},
		{name: "doc", fileName: "speech.doc", content: ole},
		{name: "docx", fileName: "speech.docx", content: zip},
		{name: "plain text as pdf", fileName: "speech.pdf", content: []byte("hello there\n"), wantErr: ErrContentMismatch},
		{name: "pdf as hwp", fileName: "speech.hwp", content: []byte("%PDF-1.7\n"), wantErr: ErrContentMismatch},
		{name: "html as docx", fileName: "speech.docx", content: []byte("<html><body>hi</body></html>"), wantErr: ErrContentMismatch},
		{name: "python shebang", fileName: "speech.hwp", content: []byte("#!/usr/bin/env python3\nprint(1)\n"), wantErr: ErrExecutableContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			store := NewFileStore(root, 4096)

			rel, err := store.Save(2026, tt.fileName, bytes.NewReader(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, core.ErrInvalidInput)

				_, statErr := os.Stat(filepath.Join(root, "contest"))
				assert.True(t, os.IsNotExist(statErr))
				return
			}
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
		})
	}
}

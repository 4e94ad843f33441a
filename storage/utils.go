package storage

import (
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

func LastModified(file string) (time.Time, error) {
	fileInfo, err := os.Stat(file)
	if err != nil {
		return time.Time{}, err
	}
	return fileInfo.ModTime(), nil
}

func Size(file string) (int64, error) {
	fi, err := os.Stat(file)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// MimeType sniffs the file content, the extension is not consulted.
func MimeType(file string) (string, error) {
	mtype, err := mimetype.DetectFile(file)
	if err != nil {
		return "", err
	}

	return mtype.String(), nil
}

package common

import (
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Recorded invocations may come from a machine with another path flavor than the current one,
// so the helpers below accept both '/' and '\' as separators instead of relying on path/filepath.

// IsRootedPath reports whether p is absolute in either flavor: "/x", "\x", "\\server\x" or "C:\x".
func IsRootedPath(p string) bool {
	if p == "" {
		return false
	}
	if isSeparator(p[0]) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && isSeparator(p[2]) && isDriveLetter(p[0])
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ResolvePath joins a relative p onto baseDir, using baseDir's separator flavor.
// Rooted paths and empty base directories leave p untouched.
func ResolvePath(baseDir string, p string) string {
	if IsRootedPath(p) || baseDir == "" {
		return p
	}
	if separatorOf(baseDir) == '/' {
		return path.Clean(withTrailingSeparator(baseDir) + p)
	}
	return withTrailingSeparator(baseDir) + strings.TrimPrefix(p, `.\`)
}

// DirName returns everything before the last separator of p, or "" when p has no separator.
func DirName(p string) string {
	idx := strings.LastIndexAny(p, `/\`)
	if idx == -1 {
		return ""
	}
	if idx == 0 || (idx == 2 && p[1] == ':') {
		return p[:idx+1]
	}
	return p[:idx]
}

// BaseName returns everything after the last separator of p.
func BaseName(p string) string {
	return p[strings.LastIndexAny(p, `/\`)+1:]
}

func FileNameWithoutExt(p string) string {
	return ReplaceFileExt(BaseName(p), "")
}

func ReplaceFileExt(fileName string, newExt string) string {
	base := BaseName(fileName)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return fileName + newExt
	}
	return fileName[:len(fileName)-len(base)+idx] + newExt
}

func MkdirForFile(fileName string) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	return nil
}

func OpenTempFile(fullPath string) (f *os.File, err error) {
	fileNameTmp := fullPath + "." + strconv.Itoa(rand.Int())
	return os.OpenFile(fileNameTmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
}

// WriteFileAtomically writes data next to name and renames it over name,
// so that readers never observe a half-written file.
func WriteFileAtomically(name string, data []byte) error {
	if err := MkdirForFile(name); err != nil {
		return err
	}

	f, err := OpenTempFile(name)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err1 := f.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err == nil {
		err = os.Rename(f.Name(), name)
	}
	if err != nil {
		_ = os.Remove(f.Name())
	}
	return err
}

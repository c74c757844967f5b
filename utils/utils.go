package utils

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var moduleSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	// compatible solution to get the module source directory with various operating systems
	moduleSourceDir = sourceDir(file)
}

func sourceDir(file string) string {
	dir := filepath.Dir(file)
	dir = filepath.Dir(dir)

	s := filepath.Dir(dir)
	if filepath.Base(s) != "gorm.io" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

// FileWithLineNum return the file name and line number of the first caller
// outside this module
func FileWithLineNum() string {
	// the second caller usually from the logger, so set i start from 2
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && (!strings.HasPrefix(file, moduleSourceDir) || strings.HasSuffix(file, "_test.go")) {
			return file + ":" + strconv.FormatInt(int64(line), 10)
		}
	}

	return ""
}

// CallerFrame frame of the first caller outside this module
func CallerFrame() runtime.Frame {
	pcs := [13]uintptr{}
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for i := 0; i < n; i++ {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.File, moduleSourceDir) || strings.HasSuffix(frame.File, "_test.go") {
			return frame
		}
		if !more {
			break
		}
	}
	return runtime.Frame{}
}

// CheckTruth check string true or not
func CheckTruth(vals ...string) bool {
	for _, val := range vals {
		if val != "" && !strings.EqualFold(val, "false") && val != "0" {
			return true
		}
	}
	return false
}

// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var (
	tempDir    string
	datasetDir string
)

// The MovieLens archives unzip into versioned directories that don't match
// the archive names.
var archiveDirs = map[string]string{
	"ml-10m":  "ml-10M100K",
	"ml-1m":   "ml-1m",
	"ml-100k": "ml-100k",
}

func init() {
	usr, err := user.Current()
	if err != nil {
		log.Logger().Fatal("failed to get user directory", zap.Error(err))
	}
	datasetDir = filepath.Join(usr.HomeDir, ".mlbench", "dataset")
	tempDir = filepath.Join(usr.HomeDir, ".mlbench", "temp")
}

// DownloadAndUnzip fetches a MovieLens archive into the local dataset
// directory unless it is already cached and returns the unzipped path.
func DownloadAndUnzip(name string) (string, error) {
	dir, ok := archiveDirs[name]
	if !ok {
		return "", errors.Errorf("unknown dataset %v", name)
	}
	url := fmt.Sprintf("https://files.grouplens.org/datasets/movielens/%s.zip", name)
	path := filepath.Join(datasetDir, dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zipFileName, err := downloadFromUrl(url, tempDir)
		if err != nil {
			return "", errors.Trace(err)
		}
		if _, err := unzip(zipFileName, datasetDir); err != nil {
			return "", errors.Trace(err)
		}
	}
	return path, nil
}

// downloadFromUrl downloads file from URL.
func downloadFromUrl(src, dst string) (string, error) {
	log.Logger().Info("download dataset", zap.String("source", src), zap.String("destination", dst))
	// Extract file name
	tokens := strings.Split(src, "/")
	fileName := filepath.Join(dst, tokens[len(tokens)-1])
	// Create file
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fileName, errors.Trace(err)
	}
	output, err := os.Create(fileName)
	if err != nil {
		log.Logger().Error("failed to create file", zap.Error(err), zap.String("filename", fileName))
		return fileName, errors.Trace(err)
	}
	defer output.Close()
	// Download file
	response, err := http.Get(src)
	if err != nil {
		log.Logger().Error("failed to download", zap.Error(err), zap.String("source", src))
		return fileName, errors.Trace(err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fileName, errors.Errorf("download %v: %v", src, response.Status)
	}
	// Save file
	bar := progressbar.DefaultBytes(response.ContentLength, "downloading")
	_, err = io.Copy(io.MultiWriter(output, bar), response.Body)
	if err != nil {
		log.Logger().Error("failed to download", zap.Error(err), zap.String("source", src))
		return fileName, errors.Trace(err)
	}
	return fileName, nil
}

// unzip zip file.
func unzip(src, dst string) ([]string, error) {
	var fileNames []string
	// Open zip file
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	// Extract files
	for _, f := range r.File {
		// Open file
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		// Store filename/path for returning and using later on
		filePath := filepath.Join(dst, f.Name)
		// Check for ZipSlip. More Info: http://bit.ly/2MsjAWE
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fileNames, errors.Errorf("%s: illegal file path", filePath)
		}
		// Add filename
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			// Create folder
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
		} else {
			// Create all folders
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
			// Create file
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return fileNames, errors.Trace(err)
			}
			// Save file
			_, err = io.Copy(outFile, rc)
			if err != nil {
				return nil, errors.Trace(err)
			}
			// Close the file without defer to close before next iteration of loop
			err = outFile.Close()
			if err != nil {
				return nil, errors.Trace(err)
			}
		}
		// Close file
		err = rc.Close()
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return fileNames, nil
}

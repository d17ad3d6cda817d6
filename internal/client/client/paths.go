package client

import (
	"net/url"
	"regexp"
)

const (
	uploadPath    = "/upload"
	pickupPath    = "/pickup"
	fileGroupPath = "/api/file-group/"
	deletePath    = "/api/delete/"
	managePrefix  = "/manage/"
	downloadRoot  = "/download/"
)

// ManagePath derives the same-origin management path for a file group.
// It never echoes a server-supplied absolute URL.
func ManagePath(fileGroupID string) string {
	return managePrefix + url.PathEscape(fileGroupID)
}

// DownloadPath builds the capability-scoped download path for one file.
func DownloadPath(fileGroupID, fileName, token string) string {
	return downloadRoot + url.PathEscape(fileGroupID) + "/" + url.PathEscape(fileName) +
		"?token=" + url.QueryEscape(token)
}

var tokenParam = regexp.MustCompile(`([?&]token=)[^&#]*`)

// RedactToken masks the capability token in a URL or path for logging.
func RedactToken(s string) string {
	return tokenParam.ReplaceAllString(s, "${1}REDACTED")
}

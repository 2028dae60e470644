package report

import "errors"

var (
	ErrCreateArtifact = errors.New("report: failed to create artifact")
	ErrAppendRow      = errors.New("report: failed to append row")
	ErrUploadArtifact = errors.New("report: failed to upload artifact")
)

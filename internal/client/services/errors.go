package services

import (
	"errors"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/common"
)

var (
	// Validation failures; these never reach the network.
	ErrNoFilesSelected       = errors.New("no files selected")
	ErrStagedIndexOutOfRange = errors.New("staged file index out of range")
	ErrEmptyPickupCode       = errors.New("empty pickup code")
	ErrNoCapability          = errors.New("no retrieval capability held")
	ErrInvalidRetention      = models.ErrInvalidRetention

	// ErrDownloadInFlight is the soft rejection of a duplicate download.
	ErrDownloadInFlight = errors.New("download already in flight")

	// ErrIllegalTransition is returned when an operation is not valid in the
	// coordinator's current state, e.g. confirming a delete that was never requested.
	ErrIllegalTransition = common.ErrIllegalTransition
)

// User-facing messages for failures detected locally.
const (
	MsgSelectFiles      = "Please select at least one file"
	MsgEnterCode        = "Please enter a pickup code"
	MsgNoCapability     = "Download information is invalid, please redeem the pickup code again"
	MsgDownloadInFlight = "This file is already downloading, please wait before trying again"
	MsgCopyFailedPrefix = "Copy failed: "
	MsgDownloadFailed   = "Download failed"

	LabelCopy   = "Copy"
	LabelCopied = "Copied"
)

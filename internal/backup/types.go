package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per agent.
const DefaultRetentionCount = 5

// manifestName is the manifest file inside each backup directory.
const manifestName = "manifest.json"

// idLayout formats backup IDs from their creation time.
const idLayout = "20060102T150405"

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the agent.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches its
	// manifest hash.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup. It is stored as manifest.json in the
// backup directory.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Agent     string    `json:"agent"`
	Files     []File    `json:"files"`

	// PMXVersion is the version of pmx that wrote the backup.
	PMXVersion string `json:"pmx_version"`

	// ID is the directory name. It is filled in when loading, not stored.
	ID string `json:"-"`
}

// File is one backed up file.
type File struct {
	OriginalPath string      `json:"original_path"`
	RelPath      string      `json:"rel_path"`
	SHA256       string      `json:"sha256"`
	Mode         fs.FileMode `json:"mode"`
}

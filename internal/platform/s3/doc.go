// Package s3 archives final provisioning responses in S3-compatible object storage.
//
// The archive is optional. When ARCHIVE_S3_BUCKET is set, the body of the
// response that ended the run is uploaded as <prefix>/<timestamp>-<outcome>.json.
package s3

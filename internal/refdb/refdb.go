// Package refdb resolves a reference-database path for cmd/sintax-build
// and cmd/nbc-build, transparently fetching `s3://bucket/key` URIs to a
// local temp file (mirroring cmd/bio-fusion's S3-backed fixture fetch)
// so the rest of the build pipeline only ever deals with local paths.
// Downloading the database itself is out of scope for the library;
// this is purely a driver-layer convenience.
package refdb

import (
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Resolve returns a local filesystem path for dbPath. If dbPath is an
// `s3://` URI it is downloaded to a temp file first; otherwise dbPath is
// returned unchanged. The caller owns cleanup of any temp file (the
// second return value names it, empty if none was created).
func Resolve(dbPath string) (localPath, tempFile string, err error) {
	if !strings.HasPrefix(dbPath, "s3://") {
		return dbPath, "", nil
	}

	u, err := url.Parse(dbPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "refdb: invalid s3 URI %q", dbPath)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	sess, err := session.NewSession()
	if err != nil {
		return "", "", errors.Wrap(err, "refdb: aws session")
	}
	client := s3.New(sess)

	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", "", errors.Wrapf(err, "refdb: get %s", dbPath)
	}
	defer out.Body.Close()

	f, err := os.CreateTemp("", "refdb-*.fasta")
	if err != nil {
		return "", "", errors.Wrap(err, "refdb: temp file")
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		os.Remove(f.Name())
		return "", "", errors.Wrapf(err, "refdb: downloading %s", dbPath)
	}
	return f.Name(), f.Name(), nil
}

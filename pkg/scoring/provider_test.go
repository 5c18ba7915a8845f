//nolint:errcheck // ok for this test code
package scoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/log"
)

const templateV1 = `
name: club-standard
type: club
points:
  1_3_participants:
    - { place: 1, individual: 10, relay: 15 }
`

const templateV2 = `
name: club-standard
type: club
points:
  1_3_participants:
    - { place: 1, individual: 20, relay: 30 }
`

func writeTemplateFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template file: %v", err)
	}
}

func firstPlacePoints(t *testing.T, p *FileProvider) string {
	t.Helper()
	tmpl, err := p.Template("club-standard")
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	return tmpl.Table["1_3_participants"][0].Individual.String()
}

func TestFileProviderReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	writeTemplateFile(t, path, templateV1)

	p, err := NewFileProvider(path, log.Default())
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}
	defer p.Close()

	assert.Equal(t, "club-standard", p.Name())
	assert.Equal(t, "10", firstPlacePoints(t, p))

	writeTemplateFile(t, path, templateV2)
	assert.Eventually(t, func() bool {
		tmpl, err := p.Template("club-standard")
		return err == nil &&
			tmpl.Table["1_3_participants"][0].Individual.String() == "20"
	}, 3*time.Second, 20*time.Millisecond, "edited template not picked up")
}

func TestFileProviderKeepsLastGoodOnBrokenEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	writeTemplateFile(t, path, templateV1)

	p, err := NewFileProvider(path, log.Default())
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}
	defer p.Close()

	writeTemplateFile(t, path, "{{ not yaml")
	// give the watcher time to see the edit and reject it
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, "club-standard", p.Name())
	assert.Equal(t, "10", firstPlacePoints(t, p))
}

func TestFileProviderMissingFile(t *testing.T) {
	_, err := NewFileProvider(
		filepath.Join(t.TempDir(), "nope.yaml"), log.Default())
	assert.Error(t, err)
}

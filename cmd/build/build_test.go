package build

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sensora/featpipe/cmd/internal"
	"github.com/sensora/featpipe/pkg/featpipe"
)

const (
	scmData = `,scm_COR_R,scm_IDM_R,scm_ENT_R,scm_CSD_R,scm_CSR_R,Freq_Gen,CC_bus,scm_ASM_R
0,0.1,1,5,0.3,2,50,1,7
1,0.2,2,,0.2,4,60,2,7
2,0.3,3,7,0.5,1,50,1,7
3,0.6,5,8,0.1,3,60,2,7
`
	scmLabels = "label\n0\n1\n0\n1\n"
)

func setup(t *testing.T) *internal.Config {
	t.Helper()
	c := internal.DefaultConfig()
	c.Data = t.TempDir()
	c.Models = t.TempDir()
	c.FeatureSets = []string{featpipe.SCM}
	data, labels, err := c.DataPaths(c.Build, featpipe.SCM)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if err := os.WriteFile(data, []byte(scmData), 0644); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if err := os.WriteFile(labels, []byte(scmLabels), 0644); err != nil {
		t.Fatalf("got error: %v", err)
	}
	return c
}

func TestBuild(t *testing.T) {
	c := setup(t)
	if err := build(context.Background(), c, featpipe.SCM); err != nil {
		t.Fatalf("got error: %v", err)
	}
	p, err := featpipe.ReadPipeline(c.PipelinePath(featpipe.SCM))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	scaler, ok := p.Steps[2].Transformer.(*featpipe.FeatureScaling)
	if !ok {
		t.Fatalf("expected *featpipe.FeatureScaling; got %T", p.Steps[2].Transformer)
	}
	cols, mean, _ := scaler.Stats()
	want, _ := featpipe.SelectedFeatures(featpipe.SCM)
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	// The row with the missing scm_ENT_R value is not part of the fit.
	if got := mean[0]; math.Abs(got-1.0/3) > 1e-12 {
		t.Fatalf("expected %g; got %g", 1.0/3, got)
	}
}

func TestBuildErrors(t *testing.T) {
	c := setup(t)
	if err := build(context.Background(), c, featpipe.HOS); err == nil {
		t.Fatalf("expected an error")
	}
	c.Models = filepath.Join(c.Models, "missing")
	if err := build(context.Background(), c, featpipe.SCM); err == nil {
		t.Fatalf("expected an error")
	}
}

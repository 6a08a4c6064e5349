// Package dataset reads session blobs (source estimates and trial
// conditions) and writes CCI results.
package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SessionKey identifies one subject/session recording and the cortical
// labels its source estimates were restricted to.
type SessionKey struct {
	Subject  int
	Session  int
	Hemi     string
	LabelSet string
}

// NormalizeHemi maps anything longer than a single hemisphere letter to "both".
func NormalizeHemi(hemi string) string {
	if len(hemi) > 1 {
		return "both"
	}
	return hemi
}

// Labels joins a comma separated label set into the file name form.
func (k SessionKey) Labels() string {
	return strings.Join(strings.Split(k.LabelSet, ","), "")
}

func (k SessionKey) subject(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, k.Subject)
}

func (k SessionKey) session() string {
	return fmt.Sprintf("_sess%d", k.Session)
}

// Dir is the per-session directory name, e.g. Cichy_s1_sess2.
func (k SessionKey) Dir(prefix string) string {
	return k.subject(prefix) + k.session()
}

// RunKey names the session in a results file, e.g. Cichy_s1__sess2.
func (k SessionKey) RunKey(prefix string) string {
	return k.subject(prefix) + "_" + k.session()
}

// SourcePath is the source estimate blob, without extension.
func SourcePath(dataDir, prefix string, k SessionKey) string {
	name := fmt.Sprintf("source_estimates_cond_%s_%s", NormalizeHemi(k.Hemi), k.Labels())
	return filepath.Join(dataDir, k.Dir(prefix), name)
}

// ConditionPath is the trial condition blob, without extension.
func ConditionPath(dataDir, prefix string, k SessionKey) string {
	return filepath.Join(dataDir, k.Dir(prefix)+"_conds")
}

// ResultPath is the results file for a session, without extension.
func ResultPath(outputDir, prefix string, k SessionKey) string {
	name := fmt.Sprintf("results__%s_cci_sub_%s", k.Dir(prefix), k.Labels())
	return filepath.Join(outputDir, name)
}

// Package report implements complaint intake: validation of anonymous
// submissions, evidence storage, persistence of the complaint and the
// tracking case opened for it.
package report

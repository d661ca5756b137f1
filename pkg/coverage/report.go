/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Plain text rendering of a coverage report.
*/

package coverage

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// WriteText renders the report as the plain text evaluation summary
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	section(bw, len(r.Classes), r.TotalClasses, "OWL classes", r.Classes)
	unused(bw, r.NonTargetClasses, "OWL classes")
	fmt.Fprint(bw, "\n\n")
	section(bw, len(r.ObjectProperties), r.TotalObjectProperties, "OWL object properties", r.ObjectProperties)
	unused(bw, r.NonTargetObjectProperties, "OWL object properties")
	fmt.Fprint(bw, "\n\n")
	section(bw, len(r.DataProperties), r.TotalDataProperties, "OWL data properties", r.DataProperties)
	unused(bw, r.NonTargetDataProperties, "OWL data properties")

	fmt.Fprint(bw, "\n\nSpace coverage of datasets are summarized below:\n")
	fmt.Fprintf(bw, "Distribution of individuals per class (DIPC) = %s\n", decimal(r.DIPC))
	fmt.Fprintf(bw, "Distribution of data properties (DDP) = %s\n", decimal(r.DDP))
	fmt.Fprintf(bw, "Distribution of object properties (DOP) = %s\n", decimal(r.DOP))
	fmt.Fprintf(bw, "Class coverage (CC) = %.2f%%\n", r.CC*100)
	fmt.Fprintf(bw, "Data property coverage (DPC) = %.2f%%\n", r.DPC*100)
	fmt.Fprintf(bw, "Object property coverage (OPC) = %.2f%%\n", r.OPC*100)

	return bw.Flush()
}

func section(w io.Writer, selected, total int, noun string, list []Count) {
	fmt.Fprintf(w, "%d out of %d %s are selected:\n", selected, total, noun)
	for _, c := range list {
		fmt.Fprintf(w, "%-8d %s\n", c.Count, c.IRI)
	}
}

func unused(w io.Writer, list []string, noun string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "\n\n%d %s are not selected but are used in the datasets:\n", len(list), noun)
	for _, iri := range list {
		fmt.Fprintln(w, iri)
	}
}

// decimal formats v with at most four fraction digits
func decimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}

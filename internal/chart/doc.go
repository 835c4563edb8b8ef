// Package chart renders survey distributions as pie-chart images.
//
// Every chart shares one Style: the fixed category colours, percentage
// labels in white bold, a legend listing literal counts, a wrapped title
// and a respondent footer. Renderer writes the three chart scopes into
// the charts directory through a files.Manager.
package chart

// Package survey holds the Likert survey domain: the closed five-category
// set, tables of per-question response counts, the directory loader for
// CSV and XLSX tables, and the per-question, per-source and global
// distributions that the chart renderers draw.
package survey

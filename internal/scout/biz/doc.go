// Package biz implements the analysis business logic: the run-scoped
// knowledge base over the data room, the six reasoning stages, and the
// pipeline that orchestrates them into a final investment memo.
package biz

// Package store provides the vector storage layer for the data room
// knowledge base.
//
// It defines the run-scoped vector store abstraction plus a Milvus-backed
// implementation for deployments and an in-memory implementation for
// local runs and tests.
package store

// Package notion is a thin REST client for the document store holding
// mailout pages. It covers the five calls the executor needs: page
// retrieval, block listing, property updates, error-row creation, and the
// trigger query used by the poller.
//
// Property names on the mailout database are operator-configurable through
// PropertyMap, so the same executor can serve workspaces with localized or
// renamed columns.
package notion

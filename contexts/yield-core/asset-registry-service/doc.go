// Package assetregistry owns asset registration, the active flag, and the
// distribution policy record (admin principal and batch cost ceiling).
//
// Share balances are not managed here; the ownership registry is an external
// collaborator and the ledger only reads balances through its oracle port.
package assetregistry

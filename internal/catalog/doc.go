// Package catalog defines the study catalog: collections, their videos, the
// playlists materialized from them and the repository contract that
// persistence layers implement.
//
// Types here carry no scheduling logic. The schedule package decides what is
// due, the playlist package applies exposures, and the store package persists
// everything behind the Repository and Tx interfaces declared in this package.
package catalog

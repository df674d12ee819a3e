// Package fold defines the face tree of a foldable net and the composer
// that turns it into world-space polygons.
// A face tree is an immutable, discardable projection of a shape family,
// its dimensions and a fold progress; every build produces a new tree.
package fold

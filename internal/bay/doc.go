// Package bay defines the domain model shared by the conductor, the
// repositories and the API: cluster templates (baymodels), bays and the
// Heat-derived status vocabulary.
//
// [ClusterTemplate] is immutable once created. [Bay] is the narrow mutable
// record the conductor updates while it reconciles a bay against its stack.
package bay

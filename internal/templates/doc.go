// Package templates reads Heat Orchestration Templates and collects the
// auxiliary files they reference.
//
// A template is identified by its path relative to the source root, e.g.
// "kubernetes/kubecluster.yaml". [Loader.Load] returns the template text
// together with a files map holding every get_file target and nested
// template type it references, keyed exactly as written in the referencing
// document so Heat can resolve them.
//
// Sources: the templates compiled into the binary ([Embedded]), a local
// directory ([Dir]) or an S3 bucket ([S3Source]).
package templates

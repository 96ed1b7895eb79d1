// Package teams provides the platform and application teams a blueprint file
// can declare.
//
// Every object is written with controllerutil.CreateOrUpdate, so setting a
// team up twice converges on the same state.
package teams

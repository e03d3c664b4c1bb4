// Package rect draws GPU-instanced axis-aligned rectangles.
//
// The pipeline owns a unit quad (four corners at ±1, six uint16 indices)
// and a compiled pipeline for one surface format. Every frame it uploads
// the instance set into a fresh vertex buffer and returns a single indexed
// draw item covering all instances.
//
// Register it with a renderer through [Builder]:
//
//	if err := r.AddPipeline(rect.Builder); err != nil {
//	    return err
//	}
package rect

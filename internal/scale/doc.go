// Package scale maps data values onto pixel space.
//
// It provides the three scales a channel timeline needs:
//   - Time: timestamps onto a horizontal pixel range, with calendar-aware
//     niceing, tick generation and multi-scale tick labels
//   - Band: ordered channel names onto equal-height vertical bands
//   - Ordinal: channel names onto a fixed categorical color palette
//
// The behaviour follows the conventions of d3's scaleTime, scaleBand and
// scaleOrdinal.
package scale

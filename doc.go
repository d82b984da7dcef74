/*
Package sweeptable contains a structured measurement-data store which
accumulates multi-dimensional sweep data, serializes it to a
self-describing tab separated text file and, when the file is loaded
again, recovers the N-dimensional loop nest that produced the data
purely from the recorded values.

# File Format Documentation

# Header

A file starts with a commented header which describes every column.
Header lines start with '#'; the header is terminated by a blank line.
Column descriptor keys are indented with a tab, any other comment line
is kept as a free comment.

	# Filename: 101530_sweep.dat
	# Timestamp: Wed Oct 14 10:15:30 2026
	<blank line>
	# free comment
	# Column 1:
	#	name: x
	#	precision: 3
	#	size: 3
	#	type: coordinate
	#	units: V
	# Column 2:
	#	name: y
	#	type: value
	<blank line>

# Body

The body is a series of rows, one per line, with tab separated fields.
Integer values are rendered without a decimal point, floating point
values in exponent notation with a per-column or default precision.
A blank line marks a block boundary, typically the end of the
innermost sweep.

	0.000e+00	0.000000000000e+00
	1.000e+00	1.000000000000e+00
	2.000e+00	4.000000000000e+00
	<blank line>
	0.000e+00	1.000000000000e+01
	...

# Shape Inference

No size metadata is required to read a file back. Coordinate column
periods are detected from where a column returns to its start value,
fastest varying column first. The product of the detected periods must
match the row count for the data to be reshaped into a Grid.
*/
package sweeptable

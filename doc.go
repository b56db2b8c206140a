/*Package nmr simulates high-resolution NMR spectra of coupled spin-1/2 systems.

	**gonmr Capabilities**

    Builds the nuclear spin Hamiltonian of N coupled spins from their chemical
	shifts and scalar coupling constants, diagonalizes it, and returns the
	stick spectrum (frequency, intensity) of all allowed transitions, with no
	first-order approximation.

    Solves many independent spin systems concurrently (SolveBatch).

    Provides WINDNMR-style starting systems of 2 to 8 spins.

    Closed-form solutions for common small systems (AB, AB2, ABX, ABX3, AA'XX',
	AA'BB' and first-order multiplets) live in the multiplet package.

    Peak lists are turned into continuous spectra by the lineshape package,
	exchange-broadened (DNMR) lineshapes are in the dnmr package, and plots are
	made with the nmrplot package.

The core functions are pure: they read their arguments, mutate nothing external
and can be called from any number of goroutines.

Errors returned by the library are of type *Error and can be classified with
errors.Is against ErrInvalidDimension, ErrNumericalDivergence, ErrEmptyPeakList
and ErrInvalidParameter.
*/
package nmr

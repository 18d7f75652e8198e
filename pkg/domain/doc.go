/*
Package domain defines the core contracts of the gibbs model layer:
contributions, state definitions, the shared property map a frame threads
through them, parameter registration, and the error taxonomy.

These types carry no assembly or solver logic; they are the vocabulary the
frame, registry and solver packages speak.
*/
package domain

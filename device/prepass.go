package device

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
)

// prepassBlock is the @inner width of the prepass kernel.
const prepassBlock = 64

// CutPrepass shortlists the elements of a direct-cut pass on the device:
// for every element it reports whether any facet's bounding box lies within
// the element's box tolerance, plus the unsigned distance from the element
// center to the nearest in-range facet plane. The host classifier then runs
// the exact triangle tests only on the shortlisted elements.
type CutPrepass struct {
	Device *gocca.OCCADevice
	Kernel *gocca.OCCAKernel

	NNodes int // nodes per element
	NFV    int // nodes per facet
}

const prepassKernelSource = `
@kernel void cutPrepass(const int nCells,
                        const int nCut,
                        const double *exv,
                        const double *fxv,
                        int *cand,
                        double *dist) {
  for (int b = 0; b < (nCells + BLK - 1) / BLK; ++b; @outer) {
    for (int t = 0; t < BLK; ++t; @inner) {
      const int e = b * BLK + t;
      if (e < nCells) {
        double bmin[3], bmax[3];
        for (int d = 0; d < 3; ++d) {
          bmin[d] = 1.e15;
          bmax[d] = -1.e15;
        }
        for (int n = 0; n < NNODES; ++n) {
          for (int d = 0; d < 3; ++d) {
            const double x = exv[(e * NNODES + n) * 3 + d];
            if (x < bmin[d]) bmin[d] = x;
            if (x > bmax[d]) bmax[d] = x;
          }
        }
        const double btol = (bmax[0] - bmin[0]) + (bmax[1] - bmin[1])
                          + (bmax[2] - bmin[2]);

        double ctr[3];
        for (int d = 0; d < 3; ++d) {
          ctr[d] = 0.5 * (bmin[d] + bmax[d]);
        }

        int hit = 0;
        double best = 1.e15;
        for (int f = 0; f < nCut; ++f) {
          double fmin[3], fmax[3];
          for (int d = 0; d < 3; ++d) {
            fmin[d] = 1.e15;
            fmax[d] = -1.e15;
          }
          for (int n = 0; n < NFV; ++n) {
            for (int d = 0; d < 3; ++d) {
              const double x = fxv[(f * NFV + n) * 3 + d];
              if (x < fmin[d]) fmin[d] = x;
              if (x > fmax[d]) fmax[d] = x;
            }
          }

          int reject = 0;
          for (int d = 0; d < 3; ++d) {
            if (fmin[d] > bmax[d] + btol || fmax[d] < bmin[d] - btol) {
              reject = 1;
            }
          }
          if (reject) continue;
          hit = 1;

          // Distance from the element center to the facet corner plane
          double e1[3], e2[3], nrm[3];
          for (int d = 0; d < 3; ++d) {
            e1[d] = fxv[(f * NFV + 1) * 3 + d] - fxv[(f * NFV + 0) * 3 + d];
            e2[d] = fxv[(f * NFV + 2) * 3 + d] - fxv[(f * NFV + 0) * 3 + d];
          }
          nrm[0] = e1[1] * e2[2] - e1[2] * e2[1];
          nrm[1] = e1[2] * e2[0] - e1[0] * e2[2];
          nrm[2] = e1[0] * e2[1] - e1[1] * e2[0];
          const double nn = sqrt(nrm[0] * nrm[0] + nrm[1] * nrm[1]
                               + nrm[2] * nrm[2]);
          if (nn > 0.) {
            double dd = 0.;
            for (int d = 0; d < 3; ++d) {
              dd += (ctr[d] - fxv[(f * NFV + 0) * 3 + d]) * nrm[d] / nn;
            }
            if (fabs(dd) < best) best = fabs(dd);
          }
        }

        cand[e] = hit;
        dist[e] = best;
      }
    }
  }
}
`

// NewCutPrepass compiles the prepass kernel for a fixed element and facet
// node count. The counts become compile-time defines so the device loops
// unroll at a fixed order.
func NewCutPrepass(dev *gocca.OCCADevice, nNodes, nfv int) (*CutPrepass, error) {
	if dev == nil {
		panic("NewCutPrepass requires a non-nil device")
	}

	preamble := fmt.Sprintf("#define NNODES %d\n#define NFV %d\n#define BLK %d\n",
		nNodes, nfv, prepassBlock)
	source := preamble + prepassKernelSource

	var kernel *gocca.OCCAKernel
	var err error
	if dev.Mode() == "OpenMP" {
		// OCCA's OpenMP backend misses the default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = dev.BuildKernelFromString(source, "cutPrepass", props)
	} else {
		kernel, err = dev.BuildKernelFromString(source, "cutPrepass", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build cutPrepass kernel: %w", err)
	}

	return &CutPrepass{Device: dev, Kernel: kernel, NNodes: nNodes, NFV: nfv}, nil
}

// Run executes the prepass for nCells elements against nCut facets and
// copies the shortlist back to the host. cand[e] is 1 when element e has at
// least one facet in range; dist[e] is the center-to-plane distance of the
// nearest in-range facet (1e15 when none).
func (cp *CutPrepass) Run(elems []float64, nCells int, facets []float64, nCut int) (cand []int32, dist []float64, err error) {
	if len(elems) != nCells*cp.NNodes*3 {
		return nil, nil, fmt.Errorf("element array length %d does not match nCells=%d, nNodes=%d",
			len(elems), nCells, cp.NNodes)
	}
	if len(facets) != nCut*cp.NFV*3 {
		return nil, nil, fmt.Errorf("facet array length %d does not match nCut=%d, nfv=%d",
			len(facets), nCut, cp.NFV)
	}
	if nCells == 0 || nCut == 0 {
		cand = make([]int32, nCells)
		dist = make([]float64, nCells)
		for i := range dist {
			dist[i] = 1e15
		}
		return cand, dist, nil
	}

	exvMem := cp.Device.Malloc(int64(len(elems)*8), unsafe.Pointer(&elems[0]), nil)
	defer exvMem.Free()
	fxvMem := cp.Device.Malloc(int64(len(facets)*8), unsafe.Pointer(&facets[0]), nil)
	defer fxvMem.Free()

	cand = make([]int32, nCells)
	dist = make([]float64, nCells)
	candMem := cp.Device.Malloc(int64(nCells*4), nil, nil)
	defer candMem.Free()
	distMem := cp.Device.Malloc(int64(nCells*8), nil, nil)
	defer distMem.Free()

	if err := cp.Kernel.RunWithArgs(int32(nCells), int32(nCut), exvMem, fxvMem, candMem, distMem); err != nil {
		return nil, nil, fmt.Errorf("cutPrepass execution failed: %w", err)
	}
	cp.Device.Finish()

	candMem.CopyTo(unsafe.Pointer(&cand[0]), int64(nCells*4))
	distMem.CopyTo(unsafe.Pointer(&dist[0]), int64(nCells*8))

	return cand, dist, nil
}

// Free releases the compiled kernel.
func (cp *CutPrepass) Free() {
	if cp.Kernel != nil {
		cp.Kernel.Free()
	}
}

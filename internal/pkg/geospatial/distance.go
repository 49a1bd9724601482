package geospatial

import "math"

// meanEarthRadiusM is the IUGG mean radius of the WGS 84 ellipsoid.
const meanEarthRadiusM = 6371008.8

// GreatCircleMeters returns the haversine distance between two signed
// decimal-degree positions.
func GreatCircleMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi := phi2 - phi1
	dLambda := radians(lon2 - lon1)

	h := hav(dPhi) + math.Cos(phi1)*math.Cos(phi2)*hav(dLambda)
	h = math.Min(1, math.Max(0, h))
	return 2 * meanEarthRadiusM * math.Asin(math.Sqrt(h))
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

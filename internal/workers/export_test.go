package workers

var JobStatusFor = jobStatusFor
